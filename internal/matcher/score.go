package matcher

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/repositories"
	"github.com/propnest/rental-backend/internal/utils"
)

const (
	weightBudget    = 30
	weightLocation  = 25
	weightBedrooms  = 20
	weightBathrooms = 15
	weightType      = 10

	budgetTolerance = 1.1
	// MinScore is the lowest percentage a listing needs to be recommended.
	MinScore = 30.0
	// DefaultLimit caps the number of recommended listings.
	DefaultLimit = 10
)

func hasBudget(c models.MatchCriteria) bool {
	return c.BudgetMin != nil && c.BudgetMax != nil && *c.BudgetMax > 0
}

// Score returns the percentage match of p against c and the reasons that
// contributed. Only criteria that are present count towards the maximum.
func Score(p *models.Property, c models.MatchCriteria) (float64, []string) {
	var score, maxScore float64
	reasons := []string{}

	if hasBudget(c) {
		maxScore += weightBudget
		switch {
		case p.Price >= *c.BudgetMin && p.Price <= *c.BudgetMax:
			score += weightBudget
			reasons = append(reasons, "Price within budget")
		case p.Price <= *c.BudgetMax*budgetTolerance:
			score += 20
			reasons = append(reasons, "Price close to budget")
		}
	}

	if c.Location != nil && *c.Location != "" {
		maxScore += weightLocation
		switch {
		case p.City != "" && utils.ContainsFold(p.City, *c.Location):
			score += weightLocation
			reasons = append(reasons, "Location match")
		case p.State != "" && utils.ContainsFold(p.State, *c.Location):
			score += 15
			reasons = append(reasons, "State match")
		}
	}

	if c.Bedrooms != nil && *c.Bedrooms > 0 {
		maxScore += weightBedrooms
		if p.Bedrooms != nil && *p.Bedrooms > 0 {
			switch {
			case *p.Bedrooms >= *c.Bedrooms:
				score += weightBedrooms
				reasons = append(reasons, fmt.Sprintf("%d bedrooms available", *p.Bedrooms))
			case *p.Bedrooms == *c.Bedrooms-1:
				score += 10
				reasons = append(reasons, "Close to bedroom requirement")
			}
		}
	}

	if c.Bathrooms != nil && *c.Bathrooms > 0 {
		maxScore += weightBathrooms
		if p.Bathrooms != nil && *p.Bathrooms >= *c.Bathrooms {
			score += weightBathrooms
			reasons = append(reasons, fmt.Sprintf("%d bathrooms available", *p.Bathrooms))
		}
	}

	if c.PropertyType != nil && *c.PropertyType != "" {
		maxScore += weightType
		if p.PropertyType != "" && utils.ContainsFold(p.PropertyType, *c.PropertyType) {
			score += weightType
			reasons = append(reasons, "Property type match")
		}
	}

	if maxScore == 0 {
		return 0, reasons
	}
	return score / maxScore * 100, reasons
}

// CandidateFilter narrows the listing query before scoring.
func CandidateFilter(c models.MatchCriteria, limit int) repositories.PropertyFilter {
	status := models.PropertyAvailable
	f := repositories.PropertyFilter{Status: &status, Limit: limit * 2}
	if hasBudget(c) {
		f.MinPrice = utils.Ptr(*c.BudgetMin)
		f.MaxPrice = utils.Ptr(*c.BudgetMax * budgetTolerance)
	}
	if c.Location != nil && strings.TrimSpace(*c.Location) != "" {
		f.Location = c.Location
	}
	return f
}

// Rank scores every candidate, drops weak matches and returns the best
// `limit` listings, highest first.
func Rank(props []*models.Property, c models.MatchCriteria, limit int) []models.RecommendedProperty {
	out := make([]models.RecommendedProperty, 0, len(props))
	for _, p := range props {
		score, reasons := Score(p, c)
		if score < MinScore {
			continue
		}
		rec := models.RecommendedProperty{
			PropertyID:   p.ID,
			Title:        p.Title,
			Price:        p.Price,
			City:         p.City,
			State:        p.State,
			PropertyType: p.PropertyType,
			Bedrooms:     p.Bedrooms,
			Bathrooms:    p.Bathrooms,
			MatchScore:   Round1(score),
			MatchReasons: reasons,
		}
		if p.Description != nil {
			rec.Description = utils.Truncate(*p.Description, 200)
		}
		if cover := p.CoverImage(); cover != nil {
			rec.CoverImage = utils.Ptr(cover.URL)
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchScore > out[j].MatchScore })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Overall is the mean score of the recommended listings, 0 for none.
func Overall(recs []models.RecommendedProperty) float64 {
	if len(recs) == 0 {
		return 0
	}
	var sum float64
	for _, r := range recs {
		sum += r.MatchScore
	}
	return Round1(sum / float64(len(recs)))
}

func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
