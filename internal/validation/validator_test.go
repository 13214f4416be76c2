package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/researchqueue/researchqueue-server/internal/errors"
	"github.com/researchqueue/researchqueue-server/internal/validation"
)

type createItemRequest struct {
	URL      string   `json:"url" validate:"notblank"`
	BoardIDs []string `json:"board_ids" validate:"min=1"`
}

type createBoardRequest struct {
	Name        string `json:"name" validate:"notblank,max=200"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(createItemRequest{URL: "https://arxiv.org", BoardIDs: []string{"b1"}}))
	assert.NoError(t, v.Validate(createBoardRequest{Name: "ML"}))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       any
		wantField string
		wantMsg   string
	}{
		{
			name:      "blank url",
			req:       createItemRequest{URL: "   ", BoardIDs: []string{"b1"}},
			wantField: "url",
			wantMsg:   "must not be blank",
		},
		{
			name:      "no boards",
			req:       createItemRequest{URL: "https://x.y"},
			wantField: "board_ids",
			wantMsg:   "must contain at least 1 entries",
		},
		{
			name:      "blank board name",
			req:       createBoardRequest{Name: "\t"},
			wantField: "name",
			wantMsg:   "must not be blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, details[tt.wantField])
		})
	}
}

func TestValidator_Var(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Var("name", "Reading list", "notblank"))

	err := v.Var("name", "  ", "notblank")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.Contains(t, err.Error(), "name must not be blank")
}
