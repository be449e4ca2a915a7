package request

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/pkg/apperror"
)

type sample struct {
	Name     string           `json:"name" validate:"required,min=1,max=10"`
	Currency string           `json:"currency" validate:"required,iso4217"`
	Amount   decimal.Decimal  `json:"amount" validate:"gt=0"`
	Percent  *decimal.Decimal `json:"percent,omitempty" validate:"omitempty,gte=0,lte=100"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
		wantMsg  string
	}{
		{"valid", `{"name":"Dinner","currency":"USD","amount":"12.50"}`, "", ""},
		{"numeric amount", `{"name":"Dinner","currency":"EUR","amount":12.5,"percent":40}`, "", ""},
		{"empty body", ``, "BAD_REQUEST", ""},
		{"malformed", `{"name":`, "BAD_REQUEST", ""},
		{"unknown field", `{"name":"x","currency":"USD","amount":"1","extra":true}`, "BAD_REQUEST", ""},
		{"missing name", `{"currency":"USD","amount":"1"}`, "VALIDATION_ERROR", "name is required"},
		{"name too long", `{"name":"abcdefghijk","currency":"USD","amount":"1"}`, "VALIDATION_ERROR", "name must be at most 10 characters"},
		{"bad currency", `{"name":"x","currency":"XYZ","amount":"1"}`, "VALIDATION_ERROR", "currency must be an ISO 4217 currency code"},
		{"zero amount", `{"name":"x","currency":"USD","amount":"0"}`, "VALIDATION_ERROR", "amount must be greater than 0"},
		{"percent over 100", `{"name":"x","currency":"USD","amount":"1","percent":"100.5"}`, "VALIDATION_ERROR", "percent must be at most 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst sample
			err := DecodeJSON(post(tt.body), &dst)

			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			appErr, ok := apperror.As(err)
			if !ok {
				t.Fatalf("expected coded error, got %v", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("code = %s, want %s (%s)", appErr.Code, tt.wantCode, appErr.Message)
			}
			if tt.wantMsg != "" && appErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", appErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestValidateMatchesSentinel(t *testing.T) {
	err := Validate(&sample{})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		query       string
		page, limit int
	}{
		{"", 1, 20},
		{"page=3&per_page=50", 3, 50},
		{"page=-1&per_page=500", 1, 20},
		{"page=abc", 1, 20},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
		page, perPage := Pagination(r)
		if page != tt.page || perPage != tt.limit {
			t.Errorf("%q: got (%d, %d), want (%d, %d)", tt.query, page, perPage, tt.page, tt.limit)
		}
	}
}
