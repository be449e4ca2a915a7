package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fkhayef/splitledger/pkg/apperror"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var body APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	return body
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"id": "g1"})

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %s", ct)
	}
	body := decode(t, rec)
	if !body.Success || body.Error != nil {
		t.Errorf("unexpected envelope: %+v", body)
	}
}

func TestFromError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/g1", nil)

	t.Run("coded error keeps status and code", func(t *testing.T) {
		rec := httptest.NewRecorder()
		notFound := apperror.New(http.StatusNotFound, "GROUP_NOT_FOUND", "group not found")
		FromError(rec, req, fmt.Errorf("wrapped: %w", notFound))

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d", rec.Code)
		}
		body := decode(t, rec)
		if body.Success || body.Error == nil || body.Error.Code != "GROUP_NOT_FOUND" {
			t.Errorf("unexpected envelope: %+v", body)
		}
	})

	t.Run("unknown error is hidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		FromError(rec, req, errors.New("pq: connection refused"))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d", rec.Code)
		}
		body := decode(t, rec)
		if body.Error == nil || body.Error.Code != "INTERNAL_ERROR" || body.Error.Message != "internal server error" {
			t.Errorf("unexpected envelope: %+v", body.Error)
		}
	})
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(2, 20, 41)
	if meta.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", meta.TotalPages)
	}
	if NewMeta(1, 20, 0).TotalPages != 0 {
		t.Error("expected zero pages for zero results")
	}
}
