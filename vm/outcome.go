package vm

import (
	"fmt"

	wasmvm "github.com/wavmlabs/wasmvm-go"
)

// ExecutionOutcome is the result of one call: exactly one of trapped,
// returned-with-value, or returned-without-value. Trapped and
// has-value are mutually exclusive by construction.
type ExecutionOutcome struct {
	value    wasmvm.Value
	trapped  bool
	hasValue bool
}

// DecodeOutcome maps the engine's raw result record into an outcome.
// When the record is trapped, any value bits it carries are dropped;
// a value is never fabricated when the record reports none.
func DecodeOutcome(res wasmvm.ExecutionResult) ExecutionOutcome {
	if res.Trapped {
		return ExecutionOutcome{trapped: true}
	}
	if !res.HasValue {
		return ExecutionOutcome{}
	}
	return ExecutionOutcome{hasValue: true, value: res.Value}
}

// Trapped reports whether the call ended in a trap.
func (o ExecutionOutcome) Trapped() bool {
	return o.trapped
}

// Value returns the returned value, if any. The second return is
// false for traps and for functions that return nothing.
func (o ExecutionOutcome) Value() (wasmvm.Value, bool) {
	if o.trapped || !o.hasValue {
		return wasmvm.Value{}, false
	}
	return o.value, true
}

// String renders the outcome for logs and the CLI.
func (o ExecutionOutcome) String() string {
	switch {
	case o.trapped:
		return "trap"
	case o.hasValue:
		return fmt.Sprintf("value(bits=%#x)", o.value.Bits())
	default:
		return "void"
	}
}
