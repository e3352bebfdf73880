package symbols

import (
	"errors"
	"fmt"
)

const (
	duplicateErrFmt = "%s %s is already declared in %s"
)

type symbolError struct {
	msg string
}

func newSymbolErrorF(format string, args ...any) symbolError {
	return symbolError{fmt.Sprintf(format, args...)}
}

func (se symbolError) Error() string {
	return fmt.Sprintf("symbol error: %s", se.msg)
}

func (se symbolError) Is(target error) bool {
	var other symbolError
	if !errors.As(target, &other) {
		return false
	}
	return other.msg == se.msg
}
