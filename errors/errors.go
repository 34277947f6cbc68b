package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which boundary crossing the error occurred at.
type Phase string

const (
	PhaseValidate    Phase = "validate"    // module validation
	PhaseParse       Phase = "parse"       // module parsing
	PhaseInstantiate Phase = "instantiate" // module instantiation
	PhaseExecute     Phase = "execute"     // function execution
	PhaseRuntime     Phase = "runtime"     // engine lifecycle
)

// Kind categorizes the error.
type Kind string

const (
	KindInvalidModule Kind = "invalid_module"
	KindInstantiation Kind = "instantiation"
	KindConsumed      Kind = "consumed"
	KindClosed        Kind = "closed"
	KindNotFound      Kind = "not_found"
	KindArityMismatch Kind = "arity_mismatch"
	KindTypeMismatch  Kind = "type_mismatch"
	KindInvalidInput  Kind = "invalid_input"
)

// Error is the structured error type used throughout the module.
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error's phase and kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction.
type Builder struct {
	err Error
}

// New creates a new error builder.
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Cause sets the underlying error.
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message.
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error.
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// ParseFailed reports input bytes rejected by the engine.
func ParseFailed(cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidModule,
		Detail: "module rejected by engine",
		Cause:  cause,
	}
}

// Instantiation reports a parsed module that could not be turned into
// a runnable instance. The module handle is already consumed when
// this error is returned.
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseInstantiate,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Consumed reports use of a handle whose ownership has already moved.
func Consumed(what string) *Error {
	return &Error{
		Phase:  PhaseInstantiate,
		Kind:   KindConsumed,
		Detail: fmt.Sprintf("%s already consumed", what),
	}
}

// Closed reports use of a handle after its release.
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}

// NotFound reports a missing export or function.
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// ArityMismatch reports a call with the wrong number of arguments.
func ArityMismatch(name string, want, got int) *Error {
	return &Error{
		Phase:  PhaseExecute,
		Kind:   KindArityMismatch,
		Detail: fmt.Sprintf("%s takes %d argument(s), got %d", name, want, got),
	}
}

// InvalidInput creates an invalid input error.
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}
