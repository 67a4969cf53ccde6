package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("lookup: %w", New(CodeComplaintNotFound, "complaint 7 missing"))
	if !stderrors.Is(err, New(CodeComplaintNotFound, "")) {
		t.Fatal("expected wrapped error to match by code")
	}
	if stderrors.Is(err, New(CodeInvalidStatus, "")) {
		t.Fatal("expected different code not to match")
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := Wrap(CodeUpstreamUnavailable, "list complaints", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause to be reachable")
	}
	if got, want := err.Error(), "list complaints: dial tcp: refused"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: stderrors.New("x"), want: CodeUnknown},
		{name: "domain", err: New(CodeTitleRequired, "title"), want: CodeTitleRequired},
		{name: "wrapped", err: fmt.Errorf("ctx: %w", New(CodePhotoInvalid, "photo")), want: CodePhotoInvalid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CodeOf(tc.err); got != tc.want {
				t.Fatalf("CodeOf = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidComplaintID, http.StatusBadRequest},
		{CodeInvalidFilter, http.StatusBadRequest},
		{CodeComplaintNotFound, http.StatusNotFound},
		{CodeAdminUnauthorized, http.StatusUnauthorized},
		{CodeUpstreamRejected, http.StatusBadGateway},
		{CodeUnknown, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := HTTPStatus(New(tc.code, "x")); got != tc.want {
			t.Fatalf("HTTPStatus(%s) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestMessageKey(t *testing.T) {
	if got := MessageKey(New(CodeInvalidComplaintID, "")); got != "errors.invalid_complaint_id" {
		t.Fatalf("MessageKey = %q", got)
	}
	if got := MessageKey(nil); got != "" {
		t.Fatalf("MessageKey(nil) = %q, want empty", got)
	}
}
