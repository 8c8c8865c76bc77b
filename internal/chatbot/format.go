package chatbot

import (
	"strconv"
	"strings"

	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/utils"
)

// formatAmount renders a whole amount with thousands separators.
func formatAmount(v float64) string {
	s := strconv.FormatInt(int64(v+0.5), 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func monthlyPrice(p *models.Property, missing string) string {
	if p.Price <= 0 {
		return missing
	}
	return "₹" + formatAmount(p.Price) + "/month"
}

func location(p *models.Property) string {
	if p.City != "" && p.State != "" {
		return p.City + ", " + p.State
	}
	return "Location not specified"
}

func shortDescription(p *models.Property, fallback string) string {
	if p.Description == nil || *p.Description == "" {
		return fallback
	}
	return utils.Truncate(*p.Description, 100)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// browseOptions is the compact listing used for property pickers.
func browseOptions(props []*models.Property) []PropertyOption {
	out := make([]PropertyOption, 0, len(props))
	for _, p := range props {
		out = append(out, PropertyOption{
			ID:       p.ID.String(),
			Title:    p.Title,
			Location: location(p),
			Price:    monthlyPrice(p, "Price not available"),
		})
	}
	return out
}

func searchOptions(props []*models.Property) []PropertyOption {
	out := browseOptions(props)
	for i, p := range props {
		out[i].Description = shortDescription(p, "")
	}
	return out
}

func visitOptions(props []*models.Property) []PropertyOption {
	out := make([]PropertyOption, 0, len(props))
	for _, p := range props {
		out = append(out, PropertyOption{
			ID:           p.ID.String(),
			Title:        p.Title,
			Address:      orDefault(p.Address, "Address not specified"),
			City:         orDefault(p.City, "City not specified"),
			Price:        monthlyPrice(p, "Price on request"),
			PropertyType: orDefault(p.PropertyType, "Not specified"),
			Description:  shortDescription(p, "No description available"),
		})
	}
	return out
}
