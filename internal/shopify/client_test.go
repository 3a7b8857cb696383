package shopify

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPageInfo(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			"next link only",
			`<https://shop.myshopify.com/admin/api/2023-10/products.json?limit=50&page_info=abc123>; rel="next"`,
			"abc123",
		},
		{
			"previous and next",
			`<https://shop.myshopify.com/admin/api/2023-10/products.json?page_info=prev1>; rel="previous", <https://shop.myshopify.com/admin/api/2023-10/products.json?page_info=next1>; rel="next"`,
			"next1",
		},
		{
			"previous only means last page",
			`<https://shop.myshopify.com/admin/api/2023-10/products.json?page_info=prev1>; rel="previous"`,
			"",
		},
		{"empty header", "", ""},
		{"garbage", "not a link header", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextPageInfo(tt.header))
		})
	}
}

func TestQuoteSearchValue(t *testing.T) {
	assert.Equal(t, "GH-01", quoteSearchValue("GH-01"))
	assert.Equal(t, `"GH 01"`, quoteSearchValue("GH 01"))
	assert.Equal(t, `"GH\"01"`, quoteSearchValue(`GH"01`))
}

func TestUserErrorsToError(t *testing.T) {
	assert.NoError(t, userErrorsToError("productCreate", nil))

	err := userErrorsToError("productCreate", []userError{
		{Field: []string{"input", "handle"}, Message: "has already been taken"},
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "productCreate")
	assert.Contains(t, err.Error(), "input.handle: has already been taken")
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(&APIError{StatusCode: http.StatusTooManyRequests}))
	assert.True(t, isTransient(&APIError{StatusCode: http.StatusServiceUnavailable}))
	assert.False(t, isTransient(&APIError{StatusCode: http.StatusNotFound}))
	assert.False(t, isTransient(&APIError{StatusCode: http.StatusUnprocessableEntity}))
	assert.False(t, isTransient(errors.New("some business error")))
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 422, Body: `{"errors":{"handle":["taken"]}}`}
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "taken")
}
