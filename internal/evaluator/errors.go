package evaluator

import (
	"errors"
	"fmt"

	"github.com/kea-lang/kea/internal/token"
)

// RuntimeError is a script evaluation failure carrying the source position
// of the failing node. Invocation failures from the dispatch layer are kept
// as the cause so errors.As still reaches them.
type RuntimeError struct {
	Line   int
	Column int
	Msg    string
	Cause  error
}

func (e *RuntimeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("runtime error at %d:%d: %s: %v", e.Line, e.Column, e.Msg, e.Cause)
	}
	return fmt.Sprintf("runtime error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

func (e *RuntimeError) Unwrap() error { return e.Cause }

func newError(tok token.Token, format string, args ...interface{}) error {
	return &RuntimeError{Line: tok.Line, Column: tok.Column, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(tok token.Token, cause error, format string, args ...interface{}) error {
	var re *RuntimeError
	if errors.As(cause, &re) {
		return cause
	}
	return &RuntimeError{Line: tok.Line, Column: tok.Column, Msg: fmt.Sprintf(format, args...), Cause: cause}
}

// Loop and return control flow travels as sentinel errors so it unwinds
// through nested Eval calls without a separate signal object type.
var (
	errBreak    = errors.New("break outside loop")
	errContinue = errors.New("continue outside loop")
)

// returnSignal unwinds a return statement to the script boundary.
type returnSignal struct {
	value interface{}
}

func (r *returnSignal) Error() string { return "return outside script" }
