package posts

import "fmt"

// IntegrityError reports that a ReadFile's computed hash didn't match the
// hash captured at instantiation. Fatal for that derivation; a rewritten
// derivation (with a new Id) supersedes it on the next build.
type IntegrityError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("hash mismatch for %s: expected %s, actual %s", e.Path, e.Expected, e.Actual)
}

// DecodeError reports that a cache file could not be parsed. Treated as a
// cache miss by every caller; never returned to the build driver directly.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ComputeError wraps a failure from an external collaborator (the markup
// renderer, the post filter, a template) with the realising derivation's
// identity.
type ComputeError struct {
	FunctionName string
	ShortID      string
	Err          error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("realise derivation %s %s: %v", e.FunctionName, e.ShortID, e.Err)
}

func (e *ComputeError) Unwrap() error {
	return e.Err
}

// ShapeError reports a precondition failure at instantiation time, such
// as requesting a FilteredPost for a path that isn't a post.
type ShapeError struct {
	Msg string
}

func (e *ShapeError) Error() string {
	return e.Msg
}
