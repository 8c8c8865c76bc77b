package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/propnest/rental-backend/internal/models"
)

const (
	infoQuestion        = "What specific information do you need about this property?"
	optTalkToTeam       = "Talk to our team"
	contactQuestion     = "What's your preferred contact method?"
	generalEmailPrompt  = "Please provide your email address so we can notify you when we have properties matching your preferences:"
	noListingsAvailable = "Sorry, we don't have any properties available at the moment. Please contact our team directly."
)

var (
	infoOptions = []string{"Rent Details", "Amenities", "Location Info", "Availability", "Documents Needed", optTalkToTeam}

	proceedNext = AdditionalOption{
		Value:       "proceed_next",
		Label:       "Proceed Next",
		Description: "Skip property selection and continue with general inquiry",
	}

	skipSelection = map[string]bool{
		"proceed next": true,
		"proceed_next": true,
		"skip property selection and continue with general inquiry": true,
		"skip property selection":                                   true,
		"continue with general inquiry":                             true,
	}

	requiredDocuments = []string{
		"Valid Government ID (Aadhaar/PAN/Passport)",
		"Income proof (Salary slips/ITR)",
		"Bank statements (last 3 months)",
		"Employment verification letter",
		"Previous landlord reference (if applicable)",
		"Passport size photographs",
	}
)

func hasPropertyReply() Reply {
	return Reply{
		Question:  "Do you have a specific property in mind?",
		Options:   []string{"Yes", "No"},
		InputType: InputYesNo,
	}
}

func (e *Engine) advanceInquiry(ctx context.Context, s Snapshot, input string) (*Transition, error) {
	switch s.Stage {
	case StageInquiryHasProperty:
		switch strings.ToLower(input) {
		case "yes":
			return ask(s, StageInquiryKeyword, "Asking for property name", Reply{
				Question:  "Please provide the property name or keyword you're looking for:",
				InputType: InputText,
			}), nil
		case "no":
			return e.browse(ctx, s)
		}
		return reask(s, "Please answer Yes or No.", hasPropertyReply()), nil

	case StageInquiryKeyword:
		return e.inquirySearch(ctx, s, input)

	case StageInquirySelect:
		if skipSelection[strings.ToLower(input)] {
			s.State.GeneralInquiry = true
			s.State.PropertyID = ""
			t := ask(s, StageInquiryGeneralEmail, "Asking for email for general property updates", Reply{
				Question:  generalEmailPrompt,
				InputType: InputEmail,
				Extras:    map[string]any{"inquiry_type": "general", "selected_property_id": nil},
			})
			return t, nil
		}
		p, err := e.lookup(ctx, input)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return e.reselect(ctx, s)
		}
		s.State.PropertyID = p.ID.String()
		return ask(s, StageInquiryInfo, "Property selected", Reply{
			Question:  infoQuestion,
			Options:   infoOptions,
			InputType: InputChoice,
			Extras:    map[string]any{"selected_property_id": s.State.PropertyID},
		}), nil

	case StageInquiryInfo:
		if strings.EqualFold(input, optTalkToTeam) {
			return ask(s, StageInquiryContactMethod, "Asking for contact method", Reply{
				Question:  contactQuestion,
				Options:   []string{"Email", "Phone", "WhatsApp"},
				InputType: InputChoice,
				Extras:    map[string]any{"selected_property_id": s.State.PropertyID},
			}), nil
		}
		return e.propertyInfo(ctx, s, input)

	case StageInquiryContactMethod:
		method := strings.ToLower(input)
		s.State.ContactMethod = method
		r := Reply{InputType: InputText}
		placeholder := "Enter your contact details"
		switch method {
		case "email":
			r.Question, r.InputType, placeholder = "Please provide your email address:", InputEmail, "Enter your email address"
		case "phone":
			r.Question, r.InputType, placeholder = "Please provide your phone number:", InputPhone, "Enter your phone number"
		case "whatsapp":
			r.Question, r.InputType, placeholder = "Please provide your WhatsApp number:", InputPhone, "Enter your WhatsApp number"
		default:
			r.Question = "Please provide your contact information:"
		}
		r.Extras = map[string]any{
			"contact_method":       method,
			"placeholder":          placeholder,
			"selected_property_id": nilIfEmpty(s.State.PropertyID),
		}
		return ask(s, StageInquiryContactValue, "Contact method selected, asking for details", r), nil

	case StageInquiryContactValue:
		if s.State.ContactMethod == "email" && !e.validEmail(input) {
			return reask(s, "That doesn't look like a valid email address.", Reply{
				Question: "Please provide your email address:", InputType: InputEmail,
			}), nil
		}
		return e.completeInquiry(s, s.State.ContactMethod, input), nil

	case StageInquiryGeneralEmail:
		if !e.validEmail(input) {
			return reask(s, "That doesn't look like a valid email address.", Reply{
				Question: generalEmailPrompt, InputType: InputEmail,
			}), nil
		}
		return e.completeInquiry(s, "email", input), nil
	}
	return e.askSatisfaction(s), nil
}

func (e *Engine) browse(ctx context.Context, s Snapshot) (*Transition, error) {
	props, err := e.catalog.Available(ctx, 7)
	if err != nil {
		return nil, fmt.Errorf("list available: %w", err)
	}
	if len(props) == 0 {
		return ask(s, StageInquiryFollowup, "No properties available", Reply{
			Question:  noListingsAvailable,
			Options:   satisfactionOptions,
			InputType: "no_properties",
			IsFinal:   true,
		}), nil
	}
	return ask(s, StageInquirySelect, "Showing available properties", Reply{
		Question:          "Here are some available properties you might be interested in:",
		InputType:         "property_browse",
		Properties:        browseOptions(props),
		AdditionalOptions: []AdditionalOption{proceedNext},
	}), nil
}

func (e *Engine) inquirySearch(ctx context.Context, s Snapshot, keyword string) (*Transition, error) {
	s.State.Keyword = keyword
	props, err := e.searchProperties(ctx, keyword, MatchTitle, MatchDescription, MatchCity)
	if err != nil {
		return nil, err
	}
	if len(props) > 0 {
		return ask(s, StageInquirySelect, "Properties found", Reply{
			Question:          fmt.Sprintf("I found %d properties matching '%s'. Please select one:", len(props), keyword),
			InputType:         "property_search_results",
			Properties:        searchOptions(props),
			AdditionalOptions: []AdditionalOption{proceedNext},
			Extras:            map[string]any{"search_keyword": keyword},
		}), nil
	}

	available, err := e.catalog.Available(ctx, 7)
	if err != nil {
		return nil, fmt.Errorf("list available: %w", err)
	}
	return ask(s, StageInquirySelect, "No search results, showing available properties", Reply{
		Question:          fmt.Sprintf("Sorry, I couldn't find any properties matching '%s'. Here are some available properties you might like:", keyword),
		InputType:         "property_search_no_results",
		Properties:        browseOptions(available),
		AdditionalOptions: []AdditionalOption{proceedNext},
		Extras:            map[string]any{"search_keyword": keyword},
	}), nil
}

// reselect repeats the property picker after an unknown selection.
func (e *Engine) reselect(ctx context.Context, s Snapshot) (*Transition, error) {
	var (
		t   *Transition
		err error
	)
	if s.State.Keyword != "" {
		t, err = e.inquirySearch(ctx, s, s.State.Keyword)
	} else {
		t, err = e.browse(ctx, s)
	}
	if err != nil {
		return nil, err
	}
	t.Reply.Question = "Please pick one of the listed properties or choose Proceed Next. " + t.Reply.Question
	return t, nil
}

func (e *Engine) propertyInfo(ctx context.Context, s Snapshot, infoType string) (*Transition, error) {
	p, err := e.lookup(ctx, s.State.PropertyID)
	if err != nil {
		return nil, err
	}

	var text string
	switch {
	case p == nil:
		text = "Sorry, I couldn't retrieve the property details. Please contact our team for assistance."
	default:
		text, err = propertyDetails(p, infoType)
		if err != nil {
			return reask(s, "Please choose one of the options.", Reply{
				Question: infoQuestion, Options: infoOptions, InputType: InputChoice,
			}), nil
		}
	}

	return ask(s, StageInquiryFollowup, "Information provided", Reply{
		Question:  text,
		Options:   satisfactionOptions,
		InputType: "info_response",
		Extras:    map[string]any{"selected_property_id": s.State.PropertyID},
	}), nil
}

var errUnknownInfo = errors.New("unknown information type")

func propertyDetails(p *models.Property, infoType string) (string, error) {
	var b strings.Builder
	switch strings.ToLower(infoType) {
	case "rent details":
		fmt.Fprintf(&b, "💰 **Rent Details for %s:**\n", p.Title)
		fmt.Fprintf(&b, "• Monthly Rent: %s\n", monthlyPrice(p, "Price not available"))
		deposit := "Deposit info not available"
		if p.Deposit != nil && *p.Deposit > 0 {
			deposit = "₹" + formatAmount(*p.Deposit)
		}
		fmt.Fprintf(&b, "• Security Deposit: %s\n", deposit)
		fee := "No application fee"
		if p.ApplicationFee != nil && *p.ApplicationFee > 0 {
			fee = "₹" + formatAmount(*p.ApplicationFee)
		}
		fmt.Fprintf(&b, "• Application Fee: %s\n", fee)
		lease := "Contact for lease terms"
		if p.LeaseTerm != nil && *p.LeaseTerm != "" {
			lease = *p.LeaseTerm
		}
		fmt.Fprintf(&b, "• Lease Term: %s", lease)
	case "amenities":
		fmt.Fprintf(&b, "🏠 **Amenities for %s:**\n", p.Title)
		if len(p.Amenities) > 0 {
			b.WriteString("• " + strings.Join(p.Amenities, "\n• "))
		} else {
			b.WriteString("Contact our team for detailed amenity information.")
		}
	case "location info":
		fmt.Fprintf(&b, "📍 **Location Details for %s:**\n", p.Title)
		fmt.Fprintf(&b, "• Address: %s\n", orDefault(p.Address, "Contact for full address"))
		fmt.Fprintf(&b, "• City: %s\n", orDefault(p.City, "Not specified"))
		fmt.Fprintf(&b, "• State: %s\n", orDefault(p.State, "Not specified"))
		fmt.Fprintf(&b, "• Pincode: %s", orDefault(p.Pincode, "Contact for pincode"))
	case "availability":
		from := "Contact for availability"
		if p.AvailableFrom != nil {
			from = p.AvailableFrom.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "📅 **Availability for %s:**\n", p.Title)
		fmt.Fprintf(&b, "• Available From: %s\n", from)
		fmt.Fprintf(&b, "• Current Status: %s", orDefault(string(p.Status), "Contact for status"))
	case "documents needed":
		fmt.Fprintf(&b, "📄 **Documents Required for %s:**\n", p.Title)
		b.WriteString("• " + strings.Join(requiredDocuments, "\n• "))
		b.WriteString("\n\nSpecific requirements may vary. Contact our team for detailed document checklist.")
	default:
		return "", errUnknownInfo
	}
	return b.String(), nil
}

func (e *Engine) completeInquiry(s Snapshot, method, value string) *Transition {
	var (
		text, message, inquiryType string
		propertyID                 any
	)
	if s.State.GeneralInquiry {
		text = "Thank you! 🎉 We've received your email address. We will reach out to you when we have property matching you."
		message = "Email received for general property updates"
		inquiryType = "general"
	} else {
		text = fmt.Sprintf("Thank you! 🎉 We've received your %s details. Our team will contact you soon regarding your property inquiry.", method)
		message = "Your inquiry has been submitted"
		inquiryType = "specific_property"
		propertyID = nilIfEmpty(s.State.PropertyID)
	}

	t := complete(s, message, text, "thank_you_message", map[string]any{
		"contact_submitted":    true,
		"inquiry_type":         inquiryType,
		"selected_property_id": propertyID,
		"contact_details":      map[string]string{"method": method, "value": value},
	})

	switch method {
	case "email":
		t.Contact.Email = &value
	case "phone", "whatsapp":
		t.Contact.Phone = &value
	}

	lead := InquiryLead{Method: method, Value: value}
	if !s.State.GeneralInquiry {
		if id, err := parseID(s.State.PropertyID); err == nil {
			lead.PropertyID = &id
		}
	}
	t.Effects = append(t.Effects, lead)
	return t
}
