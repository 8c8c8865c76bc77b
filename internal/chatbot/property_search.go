package chatbot

const searchEmailQuestion = "Please provide your email address so our team can contact you with suitable property options:"

var searchOrder = []Stage{
	StageSearchType,
	StageSearchCity,
	StageSearchBudget,
	StageSearchBedrooms,
	StageSearchPets,
	StageSearchMoveIn,
	StageSearchAmenities,
	StageSearchEmail,
}

var searchQuestions = map[Stage]Reply{
	StageSearchType: {
		Question:  "What type of property are you looking for?",
		Options:   []string{"Apartment", "House", "Studio", "Villa", "Any"},
		InputType: InputChoice,
	},
	StageSearchCity: {
		Question:  "Which city are you interested in?",
		InputType: InputText,
	},
	StageSearchBudget: {
		Question:  "What's your budget range per month?",
		Options:   []string{"Under ₹10,000", "₹10,000-₹25,000", "₹25,000-₹50,000", "₹50,000-₹1,00,000", "Above ₹1,00,000"},
		InputType: InputChoice,
	},
	StageSearchBedrooms: {
		Question:  "How many bedrooms do you need?",
		Options:   []string{"Studio/0", "1 BHK", "2 BHK", "3 BHK", "4+ BHK"},
		InputType: InputChoice,
	},
	StageSearchPets: {
		Question:  "Do you have pets?",
		Options:   []string{"Yes", "No"},
		InputType: InputChoice,
	},
	StageSearchMoveIn: {
		Question:  "When do you want to move in?",
		Options:   []string{"Immediately", "Within 1 month", "1-3 months", "3+ months"},
		InputType: InputChoice,
	},
	StageSearchAmenities: {
		Question:  "Any specific amenities you need?",
		Options:   []string{"Parking", "Gym", "Swimming Pool", "Security", "None specific"},
		InputType: InputChoice,
	},
	StageSearchEmail: {
		Question:  searchEmailQuestion,
		InputType: InputEmail,
	},
}

func (e *Engine) advanceSearch(s Snapshot, input string) (*Transition, error) {
	if s.State.Search == nil {
		s.State.Search = &SearchPreferences{}
	}
	prefs := s.State.Search

	switch s.Stage {
	case StageSearchType:
		prefs.PropertyType = input
	case StageSearchCity:
		prefs.City = input
	case StageSearchBudget:
		prefs.Budget = input
	case StageSearchBedrooms:
		prefs.Bedrooms = input
	case StageSearchPets:
		prefs.Pets = input
	case StageSearchMoveIn:
		prefs.MoveIn = input
	case StageSearchAmenities:
		prefs.Amenities = input
	case StageSearchEmail:
		if !e.validEmail(input) {
			return reask(s, "That doesn't look like a valid email address.", searchQuestions[StageSearchEmail]), nil
		}
		return e.completeSearch(s, input), nil
	default:
		return e.askSatisfaction(s), nil
	}

	for i, st := range searchOrder {
		if st == s.Stage && i+1 < len(searchOrder) {
			next := searchOrder[i+1]
			return ask(s, next, "Next property search question", searchQuestions[next]), nil
		}
	}
	return e.askSatisfaction(s), nil
}

func (e *Engine) completeSearch(s Snapshot, email string) *Transition {
	prefs := *s.State.Search
	text := "Thank you for providing your property preferences and email! We have recorded your requirements and our team will contact you shortly with suitable property options."
	t := complete(s, "Property search completed", text, InputComplete, map[string]any{
		"completion_message": text,
		"user_preferences":   prefs.Display(),
		"user_email":         email,
		"status":             "completed",
	})
	t.Contact.Email = &email
	t.Effects = append(t.Effects, PropertySearchLead{Email: email, Preferences: prefs})
	return t
}
