package errors_test

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/wavmlabs/wasmvm-go/errors"
)

func TestError_Format(t *testing.T) {
	err := errors.New(errors.PhaseParse, errors.KindInvalidModule).
		Detail("bad version field").
		Build()

	got := err.Error()
	if !strings.Contains(got, "[parse]") {
		t.Errorf("missing phase: %q", got)
	}
	if !strings.Contains(got, "invalid_module") {
		t.Errorf("missing kind: %q", got)
	}
	if !strings.Contains(got, "bad version field") {
		t.Errorf("missing detail: %q", got)
	}
}

func TestError_FormatWithCause(t *testing.T) {
	cause := fmt.Errorf("magic number mismatch")
	err := errors.ParseFailed(cause)

	got := err.Error()
	if !strings.Contains(got, "caused by: magic number mismatch") {
		t.Errorf("missing cause: %q", got)
	}
}

func TestError_DetailFormatting(t *testing.T) {
	err := errors.New(errors.PhaseExecute, errors.KindNotFound).
		Detail("function %d of %d", 7, 3).
		Build()
	if !strings.Contains(err.Error(), "function 7 of 3") {
		t.Errorf("detail args not applied: %q", err.Error())
	}
}

func TestError_Is(t *testing.T) {
	err := errors.Consumed("module")

	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseInstantiate, Kind: errors.KindConsumed}) {
		t.Error("expected Is to match on phase+kind")
	}
	if stderrors.Is(err, &errors.Error{Phase: errors.PhaseParse, Kind: errors.KindConsumed}) {
		t.Error("expected Is to reject a different phase")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("missing import")
	err := errors.Instantiation(cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected Unwrap chain to reach the cause")
	}
}

func TestArityMismatch(t *testing.T) {
	err := errors.ArityMismatch("div", 2, 3)
	got := err.Error()
	if !strings.Contains(got, "div takes 2 argument(s), got 3") {
		t.Errorf("unexpected message: %q", got)
	}
	if err.Kind != errors.KindArityMismatch {
		t.Errorf("unexpected kind: %v", err.Kind)
	}
}

func TestClosedAndNotFound(t *testing.T) {
	if got := errors.Closed(errors.PhaseExecute, "instance").Error(); !strings.Contains(got, "instance is closed") {
		t.Errorf("unexpected message: %q", got)
	}
	if got := errors.NotFound(errors.PhaseExecute, "export", "main").Error(); !strings.Contains(got, `export "main" not found`) {
		t.Errorf("unexpected message: %q", got)
	}
}
