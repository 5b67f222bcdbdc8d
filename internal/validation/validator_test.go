package validation_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/rasa-media/rasa-server/internal/errors"
	"github.com/rasa-media/rasa-server/internal/validation"
)

type movieRecord struct {
	ExternalID string  `json:"external_id" validate:"required"`
	Title      string  `json:"title" validate:"required"`
	Year       int     `json:"year" validate:"omitempty,gte=1870,lte=2100"`
	Rating     float64 `json:"rating" validate:"gte=0,lte=10"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	rec := movieRecord{
		ExternalID: "mv-1",
		Title:      "Chinatown",
		Year:       1974,
		Rating:     8.1,
	}

	assert.NoError(t, v.Validate(rec))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		rec       movieRecord
		wantField string
	}{
		{
			name:      "missing external id",
			rec:       movieRecord{Title: "Chinatown", Year: 1974, Rating: 8.1},
			wantField: "external_id",
		},
		{
			name:      "missing title",
			rec:       movieRecord{ExternalID: "mv-1", Year: 1974, Rating: 8.1},
			wantField: "title",
		},
		{
			name:      "year before cinema existed",
			rec:       movieRecord{ExternalID: "mv-1", Title: "Chinatown", Year: 1492, Rating: 8.1},
			wantField: "year",
		},
		{
			name:      "rating above scale",
			rec:       movieRecord{ExternalID: "mv-1", Title: "Chinatown", Year: 1974, Rating: 11},
			wantField: "rating",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.rec)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			// Field errors are keyed by JSON tag name.
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tt.wantField)
		})
	}
}

func TestValidator_MultipleFieldErrors(t *testing.T) {
	v := validation.New()

	err := v.Validate(movieRecord{Rating: -1})
	require.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))

	details, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Len(t, details, 3) // external_id, title, rating
}
