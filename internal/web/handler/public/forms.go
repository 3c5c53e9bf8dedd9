package public

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AssocCMS/AssocCMS/internal/db/models"
)

// ErrInvalidAnswers wraps every answer validation failure.
var ErrInvalidAnswers = errors.New("invalid answers")

// CheckAnswers validates answers against the active fields of a form and
// returns the answers of those fields only. Keys of unknown or inactive
// fields are dropped.
func CheckAnswers(v *validator.Validate, fields []models.FormField, answers map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(fields))

	var problems []string

	for _, f := range fields {
		if !f.Active {
			continue
		}

		val, ok := answers[f.Name]
		if !ok || empty(val) {
			if f.Required {
				problems = append(problems, f.Name+" is required")
			}

			continue
		}

		if msg := checkValue(v, f, val); msg != "" {
			problems = append(problems, f.Name+" "+msg)

			continue
		}

		out[f.Name] = val
	}

	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAnswers, strings.Join(problems, ", "))
	}

	return out, nil
}

func empty(val any) bool {
	switch x := val.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case bool:
		return !x
	default:
		return false
	}
}

func checkValue(v *validator.Validate, f models.FormField, val any) string {
	switch f.Type {
	case "checkbox":
		if _, ok := val.(bool); !ok {
			return "must be true or false"
		}

		return ""
	case "number":
		switch x := val.(type) {
		case float64:
			return ""
		case string:
			if _, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
				return ""
			}
		}

		return "must be a number"
	}

	s, ok := val.(string)
	if !ok {
		return "must be text"
	}

	s = strings.TrimSpace(s)

	switch f.Type {
	case "email":
		if v.Var(s, "email") != nil {
			return "must be an email address"
		}
	case "date":
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return "must be a date (YYYY-MM-DD)"
		}
	case "select":
		if !slices.Contains([]string(f.Options), s) {
			return "must be one of " + strings.Join(f.Options, ", ")
		}
	default:
		if len(s) > 5000 { //nolint:mnd
			return "is too long"
		}
	}

	return ""
}
