package public

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AssocCMS/AssocCMS/internal/db/models"
)

func testFields() []models.FormField {
	return []models.FormField{
		{Name: "motivation", Type: "textarea", Required: true, Active: true},
		{Name: "newsletter", Type: "checkbox", Active: true},
		{Name: "age", Type: "number", Active: true},
		{Name: "contact", Type: "email", Active: true},
		{Name: "birthday", Type: "date", Active: true},
		{Name: "tshirt", Type: "select", Options: []string{"S", "M", "L"}, Active: true},
		{Name: "legacy", Type: "text", Required: true, Active: false},
	}
}

func TestCheckAnswers(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name    string
		answers map[string]any
		want    map[string]any
		wantErr string
	}{
		{
			name:    "required only",
			answers: map[string]any{"motivation": "I like parks"},
			want:    map[string]any{"motivation": "I like parks"},
		},
		{
			name: "all valid, unknown keys dropped",
			answers: map[string]any{
				"motivation": "x",
				"newsletter": true,
				"age":        float64(31),
				"contact":    "me@example.org",
				"birthday":   "1990-02-03",
				"tshirt":     "M",
				"legacy":     "ignored",
				"injected":   "dropped",
			},
			want: map[string]any{
				"motivation": "x",
				"newsletter": true,
				"age":        float64(31),
				"contact":    "me@example.org",
				"birthday":   "1990-02-03",
				"tshirt":     "M",
			},
		},
		{
			name:    "missing required",
			answers: map[string]any{"tshirt": "S"},
			wantErr: "motivation is required",
		},
		{
			name:    "blank required",
			answers: map[string]any{"motivation": "   "},
			wantErr: "motivation is required",
		},
		{
			name:    "number as text",
			answers: map[string]any{"motivation": "x", "age": "42"},
			want:    map[string]any{"motivation": "x", "age": "42"},
		},
		{
			name:    "bad number",
			answers: map[string]any{"motivation": "x", "age": "old"},
			wantErr: "age must be a number",
		},
		{
			name:    "bad email",
			answers: map[string]any{"motivation": "x", "contact": "nope"},
			wantErr: "contact must be an email address",
		},
		{
			name:    "bad date",
			answers: map[string]any{"motivation": "x", "birthday": "03/02/1990"},
			wantErr: "birthday must be a date",
		},
		{
			name:    "unknown option",
			answers: map[string]any{"motivation": "x", "tshirt": "XXL"},
			wantErr: "tshirt must be one of S, M, L",
		},
		{
			name:    "checkbox must be bool",
			answers: map[string]any{"motivation": "x", "newsletter": "yes"},
			wantErr: "newsletter must be true or false",
		},
		{
			name:    "text must be string",
			answers: map[string]any{"motivation": 12.0},
			wantErr: "motivation must be text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckAnswers(v, testFields(), tt.answers)
			if tt.wantErr != "" {
				require.ErrorIs(t, err, ErrInvalidAnswers)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckAnswers_ReportsEveryProblem(t *testing.T) {
	_, err := CheckAnswers(validator.New(), testFields(), map[string]any{"age": "x", "tshirt": "XL"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "motivation is required")
	assert.Contains(t, err.Error(), "age must be a number")
	assert.Contains(t, err.Error(), "tshirt must be one of")
}
