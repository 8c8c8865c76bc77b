// Package matcher derives tenant criteria from screening answers and scores
// listings against them.
package matcher

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/propnest/rental-backend/internal/models"
	"github.com/propnest/rental-backend/internal/utils"
)

var numberPattern = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// numbers returns every number in s, ignoring thousands separators.
func numbers(s string) []float64 {
	var out []float64
	for _, m := range numberPattern.FindAllString(s, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err == nil {
			out = append(out, v)
		}
	}
	return out
}

func answerText(a *models.ScreeningAnswer) string {
	switch {
	case a.AnswerText != nil:
		return strings.TrimSpace(*a.AnswerText)
	case a.AnswerNumber != nil:
		return strconv.FormatFloat(*a.AnswerNumber, 'f', -1, 64)
	case a.AnswerDate != nil:
		return a.AnswerDate.Format("2006-01-02")
	}
	return ""
}

func answerNumbers(a *models.ScreeningAnswer) []float64 {
	if a.AnswerNumber != nil {
		return []float64{*a.AnswerNumber}
	}
	if a.AnswerText != nil {
		return numbers(*a.AnswerText)
	}
	return nil
}

func firstInt(a *models.ScreeningAnswer) *int {
	nums := answerNumbers(a)
	if len(nums) == 0 || nums[0] <= 0 {
		return nil
	}
	return utils.Ptr(int(nums[0]))
}

// CriteriaFromAnswers maps answers onto match criteria by keywords found in
// each question's text. Later answers for the same criterion win.
func CriteriaFromAnswers(answers []*models.ScreeningAnswer) models.MatchCriteria {
	var c models.MatchCriteria
	for _, a := range answers {
		q := strings.ToLower(a.QuestionText)
		text := answerText(a)
		if text == "" {
			continue
		}

		switch {
		case strings.Contains(q, "budget") || strings.Contains(q, "rent you") || strings.Contains(q, "afford"):
			nums := answerNumbers(a)
			switch {
			case len(nums) == 0:
			case strings.Contains(q, "min"):
				c.BudgetMin = utils.Ptr(nums[0])
			case strings.Contains(q, "max"):
				c.BudgetMax = utils.Ptr(nums[0])
			case len(nums) >= 2:
				lo, hi := nums[0], nums[1]
				if lo > hi {
					lo, hi = hi, lo
				}
				c.BudgetMin, c.BudgetMax = utils.Ptr(lo), utils.Ptr(hi)
			default:
				c.BudgetMax = utils.Ptr(nums[0])
			}
		case strings.Contains(q, "bedroom"):
			if v := firstInt(a); v != nil {
				c.Bedrooms = v
			}
		case strings.Contains(q, "bathroom"):
			if v := firstInt(a); v != nil {
				c.Bathrooms = v
			}
		case strings.Contains(q, "move"):
			c.MoveInDate = utils.Ptr(text)
		case strings.Contains(q, "type of property") || strings.Contains(q, "property type"):
			c.PropertyType = utils.Ptr(text)
		case strings.Contains(q, "location") || strings.Contains(q, "city") || strings.Contains(q, "where"):
			c.Location = utils.Ptr(text)
		}
	}
	return c
}
