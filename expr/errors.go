package expr

import "fmt"

// ParseError is returned by Parse/Validate for any malformed
// expression, including a dangerous (safelist-forbidden) identifier —
// that check runs at tokenize time, so even an unused occurrence fails
// the parse.
type ParseError struct {
	Message  string
	Position int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Position, e.Message)
}

// EvalErrorKind closes the set of runtime evaluation failures.
type EvalErrorKind string

const (
	EvalUnknownVariable   EvalErrorKind = "UnknownVariable"
	EvalUnknownFunction   EvalErrorKind = "UnknownFunction"
	EvalUnknownIdentifier EvalErrorKind = "UnknownIdentifier"
	EvalTypeMismatch      EvalErrorKind = "TypeMismatch"
	EvalIndexOutOfRange   EvalErrorKind = "IndexOutOfRange"
	EvalDivideByZero      EvalErrorKind = "DivideByZero"
)

// EvalError is returned by Evaluate for a well-formed AST that fails
// at runtime: an unresolved variable/function/identifier, or a type
// error a specific builtin opted into reporting explicitly.
type EvalError struct {
	Kind    EvalErrorKind
	Message string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newEvalError(kind EvalErrorKind, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
