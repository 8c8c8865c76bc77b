package chatbot

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	visitKeywordQuestion = "Which property would you like to visit? Please provide the property name or keywords:"
	visitDateQuestion    = "What's your preferred date for the visit?"
	optContactSupport    = "Contact Support"
	optTryKeywords       = "Try Different Keywords"
)

var visitTimeOptions = []string{"Morning (9AM-12PM)", "Afternoon (12PM-4PM)", "Evening (4PM-7PM)"}

func visitKeywordReply() Reply {
	return Reply{Question: visitKeywordQuestion, InputType: InputText}
}

func visitDateReply() Reply {
	return Reply{
		Question:  visitDateQuestion,
		InputType: InputDate,
		Extras:    map[string]any{"placeholder": "Select your preferred date"},
	}
}

// slotTime maps a preferred time-of-day label onto a concrete start time.
func slotTime(label string) string {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "afternoon"):
		return "14:00"
	case strings.Contains(l, "evening"):
		return "17:00"
	default:
		return "10:00"
	}
}

func (e *Engine) advanceVisit(ctx context.Context, s Snapshot, input string) (*Transition, error) {
	switch s.Stage {
	case StageVisitKeyword:
		return e.visitSearch(ctx, s, input)

	case StageVisitNoResults:
		switch {
		case strings.EqualFold(input, optTryKeywords):
			return ask(s, StageVisitKeyword, "Asking for different keywords", visitKeywordReply()), nil
		case strings.EqualFold(input, optContactSupport):
			return e.askSatisfaction(s), nil
		}
		return e.visitSearch(ctx, s, input)

	case StageVisitSelect:
		p, err := e.lookup(ctx, input)
		if err != nil {
			return nil, err
		}
		if p == nil {
			t, err := e.visitSearch(ctx, s, s.State.Keyword)
			if err != nil {
				return nil, err
			}
			t.Reply.Question = "Please select a property from the results. " + t.Reply.Question
			return t, nil
		}
		s.State.PropertyID = p.ID.String()
		r := visitDateReply()
		r.Extras["selected_property_id"] = s.State.PropertyID
		return ask(s, StageVisitDate, "Property selected, asking for preferred date", r), nil

	case StageVisitDate:
		d, err := time.Parse("2006-01-02", input)
		today := e.now().Truncate(24 * time.Hour)
		if err != nil || d.Before(today) {
			return reask(s, "Please enter a valid date (YYYY-MM-DD) that is today or later.", visitDateReply()), nil
		}
		s.State.VisitDate = d.Format("2006-01-02")
		return ask(s, StageVisitTime, "Date selected, asking for preferred time", Reply{
			Question:  "What time works best for you?",
			Options:   visitTimeOptions,
			InputType: InputChoice,
			Extras:    map[string]any{"selected_date": s.State.VisitDate},
		}), nil

	case StageVisitTime:
		s.State.VisitTime = input
		return ask(s, StageVisitName, "Time selected, asking for name", Reply{
			Question:  "What's your full name?",
			InputType: InputText,
			Extras: map[string]any{
				"selected_date": s.State.VisitDate,
				"selected_time": s.State.VisitTime,
			},
		}), nil

	case StageVisitName:
		if len([]rune(input)) < 2 {
			return reask(s, "Please enter your full name.", Reply{Question: "What's your full name?", InputType: InputText}), nil
		}
		s.State.VisitorName = input
		return ask(s, StageVisitPhone, "Name received, asking for phone", Reply{
			Question:  "What's your contact number?",
			InputType: InputPhone,
			Extras: map[string]any{
				"visitor_name":  s.State.VisitorName,
				"selected_date": s.State.VisitDate,
				"selected_time": s.State.VisitTime,
			},
		}), nil

	case StageVisitPhone:
		if countDigits(input) < 10 {
			return reask(s, "Please enter a phone number with at least 10 digits.", Reply{
				Question: "What's your contact number?", InputType: InputPhone,
			}), nil
		}
		s.State.VisitorPhone = input
		return ask(s, StageVisitEmail, "Phone received, asking for email", Reply{
			Question:  "What's your email address?",
			InputType: InputEmail,
			Extras: map[string]any{
				"visitor_name":  s.State.VisitorName,
				"visitor_phone": s.State.VisitorPhone,
				"selected_date": s.State.VisitDate,
				"selected_time": s.State.VisitTime,
			},
		}), nil

	case StageVisitEmail:
		if !e.validEmail(input) {
			return reask(s, "That doesn't look like a valid email address.", Reply{
				Question: "What's your email address?", InputType: InputEmail,
			}), nil
		}
		return e.completeVisit(s, input)
	}
	return e.askSatisfaction(s), nil
}

func (e *Engine) visitSearch(ctx context.Context, s Snapshot, keyword string) (*Transition, error) {
	s.State.Keyword = keyword
	props, err := e.searchProperties(ctx, keyword, MatchTitle, MatchCity, MatchAddress)
	if err != nil {
		return nil, err
	}
	if len(props) == 0 {
		return ask(s, StageVisitNoResults, "No properties found", Reply{
			Question:  fmt.Sprintf("Sorry, I couldn't find any properties matching '%s'. Could you try with different keywords or contact our support team?", keyword),
			Options:   []string{optContactSupport, optTryKeywords},
			InputType: InputChoice,
		}), nil
	}
	return ask(s, StageVisitSelect, "Properties found, asking for selection", Reply{
		Question:   fmt.Sprintf("I found %d properties matching '%s'. Please select a property to visit:", len(props), keyword),
		InputType:  "property_selection",
		Properties: visitOptions(props),
		Extras:     map[string]any{"search_keyword": keyword},
	}), nil
}

func (e *Engine) completeVisit(s Snapshot, email string) (*Transition, error) {
	st := s.State
	id, err := parseID(st.PropertyID)
	if err != nil {
		return e.askSatisfaction(s), nil
	}
	date, err := time.Parse("2006-01-02", st.VisitDate)
	if err != nil {
		return e.askSatisfaction(s), nil
	}

	text := fmt.Sprintf("Thank you %s! 🎉 Your property visit has been scheduled. Our team will contact you at %s or %s to confirm the details shortly.",
		st.VisitorName, st.VisitorPhone, email)
	t := complete(s, "Property visit scheduled successfully", text, "visit_scheduled", map[string]any{
		"visit_scheduled": true,
		"meeting_details": map[string]string{
			"property_id":    st.PropertyID,
			"visitor_name":   st.VisitorName,
			"visitor_email":  email,
			"visitor_phone":  st.VisitorPhone,
			"preferred_date": st.VisitDate,
			"preferred_time": st.VisitTime,
		},
	})
	t.Contact = Contact{Email: &email, Name: &st.VisitorName, Phone: &st.VisitorPhone}
	t.Effects = append(t.Effects, VisitRequest{
		PropertyID:    id,
		Name:          st.VisitorName,
		Phone:         st.VisitorPhone,
		Email:         email,
		Date:          date,
		Time:          slotTime(st.VisitTime),
		PreferredTime: st.VisitTime,
	})
	return t, nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
