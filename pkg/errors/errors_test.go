package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeConfiguration, http.StatusUnprocessableEntity},
		{CodeSplitIntegrity, http.StatusInternalServerError},
		{CodeNotFound, http.StatusNotFound},
		{CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("code %s: expected status %d, got %d", tc.code, tc.status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestSplitIntegrityIsNeverRetryable(t *testing.T) {
	if MetadataFor(CodeSplitIntegrity).Retryable {
		t.Fatal("split integrity failures must not be marked retryable")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeConfiguration, cause, "processor fee too high")
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if As(err).Code() != CodeConfiguration {
		t.Fatalf("expected configuration code, got %s", As(err).Code())
	}
}

func TestAsThroughFmtWrapping(t *testing.T) {
	inner := New(CodeSplitIntegrity, "parts do not sum")
	outer := fmt.Errorf("recording settlement: %w", inner)
	typed := As(outer)
	if typed == nil || typed.Code() != CodeSplitIntegrity {
		t.Fatalf("expected typed error through wrapping, got %v", typed)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := Wrap(CodeInternal, errors.New("root"), "outer")
	dump := Dump(err)
	if dump.Code != CodeInternal {
		t.Fatalf("expected code in dump, got %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %d", len(dump.Chain))
	}
}
