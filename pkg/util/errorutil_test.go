package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainError_NoRowsBecomesNotFound(t *testing.T) {
	de := ToDomainError(pgx.ErrNoRows)
	if de.Code != CodeNotFound || de.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected NOT_FOUND/404, got %s/%d", de.Code, de.HTTPStatus)
	}
}

func TestToDomainError_PassesThroughDomainErrors(t *testing.T) {
	orig := NewConflict("already exists", map[string]any{"email": "a@x.com"})
	de := ToDomainError(orig)
	if de.Code != CodeConflict || de.Message != "already exists" {
		t.Errorf("domain error mangled: %+v", de)
	}
}

func TestToDomainError_WrapsUnknownErrors(t *testing.T) {
	de := ToDomainError(errors.New("boom"))
	if de.Code != CodeInternal || de.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected INTERNAL_ERROR/500, got %s/%d", de.Code, de.HTTPStatus)
	}
	if de.Unwrap() == nil {
		t.Error("cause must be preserved")
	}
}

func TestIsCode(t *testing.T) {
	err := NewNotFound("city not found with id: ghost", nil)
	if !IsCode(err, CodeNotFound) {
		t.Error("IsCode should match the error's code")
	}
	if IsCode(err, CodeConflict) {
		t.Error("IsCode must not match a different code")
	}
	if IsCode(errors.New("plain"), CodeNotFound) {
		t.Error("IsCode must not match non-domain errors")
	}
}
