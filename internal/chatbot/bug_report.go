package chatbot

import (
	"fmt"
	"strings"
)

const bugEmailQuestion = "Please provide your email address so we can follow up on this issue:"

var technicalIssues = map[string]bool{
	"website bug":           true,
	"search not working":    true,
	"other technical issue": true,
}

func bugTypeReply() Reply {
	return Reply{
		Question:  "What type of issue would you like to report?",
		Options:   []string{"Website bug", "Property not found error", "Search not working", "Other technical issue"},
		InputType: InputChoice,
	}
}

func bugUrgencyReply() Reply {
	return Reply{
		Question: "How urgent is this issue for you?",
		Options: []string{
			"Critical - Blocking my usage",
			"High - Significant impact",
			"Medium - Minor inconvenience",
			"Low - When convenient",
		},
		InputType: InputChoice,
	}
}

func (e *Engine) advanceBug(s Snapshot, input string) (*Transition, error) {
	switch s.Stage {
	case StageBugType:
		s.State.IssueType = input
		var q string
		switch lower := strings.ToLower(input); {
		case technicalIssues[lower]:
			q = "Please describe what exactly happened. Include steps to reproduce the issue if possible:"
		case lower == "property not found error":
			q = "Please provide details about the property search issue:"
		default:
			q = "Please provide more details about the issue:"
		}
		return ask(s, StageBugDetails, "Issue type selected, asking for details", Reply{
			Question:  q,
			InputType: InputText,
			Extras:    map[string]any{"issue_type": input},
		}), nil

	case StageBugDetails:
		s.State.IssueDetails = input
		if technicalIssues[strings.ToLower(s.State.IssueType)] {
			return ask(s, StageBugTech, "Issue details received, asking for technical info", Reply{
				Question: "What device/browser are you using? (This helps us reproduce the issue)",
				Options: []string{
					"Chrome on Windows",
					"Chrome on Mac",
					"Safari on Mac",
					"Firefox on Windows",
					"Mobile app on Android",
					"Mobile app on iOS",
					"Other",
				},
				InputType: InputChoice,
				Extras:    map[string]any{"issue_type": s.State.IssueType},
			}), nil
		}
		return ask(s, StageBugUrgency, "Issue details received, asking about urgency", bugUrgencyReply()), nil

	case StageBugTech:
		s.State.TechInfo = input
		return ask(s, StageBugUrgency, "Technical details received, asking about urgency", bugUrgencyReply()), nil

	case StageBugUrgency:
		s.State.Urgency = input
		return ask(s, StageBugEmail, "Urgency received, asking for email", Reply{
			Question:  bugEmailQuestion,
			InputType: InputEmail,
			Extras:    map[string]any{"urgency": input, "placeholder": "Enter your email address"},
		}), nil

	case StageBugEmail:
		if !e.validEmail(input) {
			return reask(s, "That doesn't look like a valid email address.", Reply{
				Question: bugEmailQuestion, InputType: InputEmail,
			}), nil
		}
		return e.completeBug(s, input), nil
	}
	return e.askSatisfaction(s), nil
}

// urgencyLevel keeps the level word of an urgency option ("Critical - ..." -> "critical").
func urgencyLevel(u string) string {
	level, _, _ := strings.Cut(u, " - ")
	return strings.ToLower(strings.TrimSpace(level))
}

func (e *Engine) completeBug(s Snapshot, email string) *Transition {
	st := s.State
	text := fmt.Sprintf("Thank you for reporting this issue! 🛠️ We've received your %s priority report about '%s'. Our technical team will investigate and contact you at %s with updates.",
		urgencyLevel(st.Urgency), st.IssueType, email)
	t := complete(s, "Bug report submitted successfully", text, "bug_report_submitted", map[string]any{
		"report_submitted": true,
		"bug_report": map[string]string{
			"issue_type":     st.IssueType,
			"urgency":        st.Urgency,
			"reporter_email": email,
		},
	})
	t.Contact.Email = &email
	tech := st.TechInfo
	if tech == "" {
		tech = "Not applicable"
	}
	t.Effects = append(t.Effects, BugReport{
		IssueType: st.IssueType,
		Details:   st.IssueDetails,
		TechInfo:  tech,
		Urgency:   st.Urgency,
		Email:     email,
	})
	return t
}
