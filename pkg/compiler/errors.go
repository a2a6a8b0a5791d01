package compiler

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCharacter      = errors.New("invalid character")
	ErrUnmatchedCloseBracket = errors.New("unmatched \"]\"")
	ErrUnclosedLoop          = errors.New("expected \"]\", got end of input")
	ErrNoHandler             = errors.New("no handler for node")
)

// SyntaxError locates a compile failure in the source.
type SyntaxError struct {
	Err    error
	Char   byte // offending byte, only set for ErrInvalidCharacter
	Offset int
	Line   int
	Col    int
}

func (e *SyntaxError) Error() string {
	if errors.Is(e.Err, ErrInvalidCharacter) {
		return fmt.Sprintf("line %d col %d: %v %q", e.Line, e.Col, e.Err, e.Char)
	}
	return fmt.Sprintf("line %d col %d: %v", e.Line, e.Col, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// IsIncomplete reports whether err only means the source ended inside a loop,
// so more input could still make it valid.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrUnclosedLoop)
}
