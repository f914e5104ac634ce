package cubemap

import "fmt"

// ValidationError reports a request parameter or input image the converter
// refuses to work with. Nothing is computed when one is returned.
type ValidationError struct {
	Field  string // which parameter failed, e.g. "face", "face size"
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
