package nameplate

import (
	"errors"
	"fmt"
)

// InvalidInputError reports a name that cannot be turned into a plate,
// such as a blank line in a names file or an empty input list.
type InvalidInputError struct {
	Line   int // 1-based line in the source file, 0 if unknown
	Name   string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid input at line %d: %s", e.Line, e.Reason)
	}
	if e.Name != "" {
		return fmt.Sprintf("invalid input %q: %s", e.Name, e.Reason)
	}
	return "invalid input: " + e.Reason
}

// IsInvalidInput reports whether err is or wraps an *InvalidInputError.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}
