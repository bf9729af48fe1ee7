package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

type fakeUpstream struct {
	status int
	body   string
}

func (f *fakeUpstream) Error() string   { return fmt.Sprintf("http %d: %s", f.status, f.body) }
func (f *fakeUpstream) Status() int     { return f.status }
func (f *fakeUpstream) RawBody() string { return f.body }

func TestToDomainError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain passthrough", NewValidationError("bad", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{"wrapped domain", fmt.Errorf("ctx: %w", NewUnauthorized("no")), "UNAUTHORIZED", http.StatusUnauthorized},
		{"upstream", fmt.Errorf("list: %w", &fakeUpstream{status: 403, body: "forbidden"}), "UPSTREAM_ERROR", http.StatusForbidden},
		{"upstream odd status", &fakeUpstream{status: 302, body: ""}, "UPSTREAM_ERROR", http.StatusBadGateway},
		{"no rows", pgx.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{"generic", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			de := ToDomainError(tc.err)
			if de.Code != tc.code || de.HTTPStatus != tc.status {
				t.Fatalf("expected %s/%d, got %s/%d", tc.code, tc.status, de.Code, de.HTTPStatus)
			}
		})
	}
	if ToDomainError(nil) != nil {
		t.Fatal("nil error must map to nil")
	}
}

func TestUpstreamDetailsCarryBody(t *testing.T) {
	de := ToDomainError(&fakeUpstream{status: 404, body: "ticket missing"})
	if de.Details["body"] != "ticket missing" {
		t.Fatalf("unexpected details %+v", de.Details)
	}
}
