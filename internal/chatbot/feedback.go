package chatbot

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	followupQuestion   = "Would you like us to follow up with you about your feedback?"
	optFollowupYes     = "Yes, please contact me"
	feedbackEmailAsk   = "Please provide your email address so we can follow up with you:"
	suggestionQuestion = "Any suggestions for improvement or new features you'd like to see?"
)

var ratingPattern = regexp.MustCompile(`\((\d)/5\)`)

func feedbackCategoryReply() Reply {
	return Reply{
		Question: "What area would you like to give feedback about?",
		Options: []string{
			"Property search experience",
			"Website usability",
			"Property listings quality",
			"Customer support",
			"Property visit experience",
			"Overall service",
		},
		InputType: InputChoice,
	}
}

// ratingValue extracts N from "... (N/5)". Unparseable ratings count as 3.
func ratingValue(r string) int {
	m := ratingPattern.FindStringSubmatch(r)
	if m == nil {
		return 3
	}
	v, _ := strconv.Atoi(m[1])
	return v
}

// ratingLabel drops the "(N/5)" suffix.
func ratingLabel(r string) string {
	label, _, _ := strings.Cut(r, "(")
	return strings.TrimSpace(label)
}

func (e *Engine) advanceFeedback(s Snapshot, input string) (*Transition, error) {
	switch s.Stage {
	case StageFeedbackCategory:
		s.State.FeedbackCategory = input
		ctx := strings.ToLower(input)
		return ask(s, StageFeedbackRating, "Feedback category selected, asking for rating", Reply{
			Question: fmt.Sprintf("Please rate your experience with %s:", ctx),
			Options: []string{
				"⭐⭐⭐⭐⭐ Excellent (5/5)",
				"⭐⭐⭐⭐ Good (4/5)",
				"⭐⭐⭐ Average (3/5)",
				"⭐⭐ Poor (2/5)",
				"⭐ Very Poor (1/5)",
			},
			InputType: InputChoice,
			Extras:    map[string]any{"feedback_category": input, "rating_context": ctx},
		}), nil

	case StageFeedbackRating:
		s.State.Rating = input
		s.State.RatingValue = ratingValue(input)
		category := strings.ToLower(s.State.FeedbackCategory)
		q := fmt.Sprintf("What would you like us to improve about our %s?", category)
		if s.State.RatingValue >= 4 {
			q = fmt.Sprintf("Great! What specifically did you like about our %s?", category)
		}
		return ask(s, StageFeedbackDetails, "Rating received, asking for details", Reply{
			Question:  q,
			InputType: InputText,
			Extras:    map[string]any{"rating": s.State.RatingValue},
		}), nil

	case StageFeedbackDetails:
		s.State.FeedbackDetails = input
		if s.State.RatingValue >= 4 {
			return ask(s, StageFeedbackSuggestions, "Detailed feedback received, asking for suggestions", Reply{
				Question:  suggestionQuestion,
				InputType: InputText,
				Extras: map[string]any{
					"rating":      s.State.RatingValue,
					"placeholder": "Share any suggestions or ideas for improvement",
				},
			}), nil
		}
		return askFollowup(s), nil

	case StageFeedbackSuggestions:
		s.State.Suggestions = input
		return askFollowup(s), nil

	case StageFeedbackFollowup:
		if strings.EqualFold(input, optFollowupYes) {
			s.State.WantsFollowup = true
			return ask(s, StageFeedbackEmail, "Asking for follow-up email", Reply{
				Question:  feedbackEmailAsk,
				InputType: InputEmail,
				Extras:    map[string]any{"placeholder": "Enter your email address"},
			}), nil
		}
		return e.completeFeedback(s, ""), nil

	case StageFeedbackEmail:
		if !e.validEmail(input) {
			return reask(s, "That doesn't look like a valid email address.", Reply{
				Question: feedbackEmailAsk, InputType: InputEmail,
			}), nil
		}
		return e.completeFeedback(s, input), nil
	}
	return e.askSatisfaction(s), nil
}

func askFollowup(s Snapshot) *Transition {
	return ask(s, StageFeedbackFollowup, "Asking about follow-up", Reply{
		Question:  followupQuestion,
		Options:   []string{optFollowupYes, "No, thank you"},
		InputType: InputChoice,
	})
}

func (e *Engine) completeFeedback(s Snapshot, email string) *Transition {
	st := s.State
	label := ratingLabel(st.Rating)
	text := fmt.Sprintf("Thank you for your valuable feedback! 🌟 We've received your %s rating for '%s'. Your input helps us improve our platform!", label, st.FeedbackCategory)
	if email != "" {
		text = fmt.Sprintf("Thank you for your valuable feedback! 🌟 We've received your %s rating for '%s'. We'll review your feedback and contact you at %s if needed.", label, st.FeedbackCategory, email)
	}
	t := complete(s, "Feedback submitted successfully", text, "feedback_submitted", map[string]any{
		"feedback_submitted": true,
		"feedback": map[string]any{
			"category": st.FeedbackCategory,
			"rating":   st.Rating,
			"email":    nilIfEmpty(email),
		},
	})
	if email != "" {
		t.Contact.Email = &email
	}
	t.Effects = append(t.Effects, FeedbackReceived{
		Category:    st.FeedbackCategory,
		Rating:      st.Rating,
		Details:     st.FeedbackDetails,
		Suggestions: st.Suggestions,
		Email:       email,
	})
	return t
}
