package imageio

import "fmt"

// InputNotFoundError reports a source path that does not exist.
type InputNotFoundError struct {
	Path string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("input not found: %s", e.Path)
}

// DecodeError reports unreadable or corrupt image data.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decoding image: %v", e.Err)
	}
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a failure to encode or write an output image.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("encoding image: %v", e.Err)
	}
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
