package entrypoint

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPanic wraps a panic raised by an entrypoint callback or constructor.
var ErrPanic = errors.New("entrypoint panicked")

// Failure is one failed target of a dispatch.
type Failure struct {
	ComponentID string
	Value       string
	Err         error
}

// DispatchError collects every failure of one dispatch pass.
type DispatchError struct {
	Key      string
	Failures []Failure
}

func (e *DispatchError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "could not execute entrypoint stage %q due to errors, provided by %s",
		e.Key, strings.Join(quote(e.Components()), ", "))
	for _, f := range e.Failures {
		fmt.Fprintf(&b, "\n- %s (%s): %v", f.ComponentID, f.Value, f.Err)
	}
	return b.String()
}

// Unwrap exposes every original cause to errors.Is and errors.As.
func (e *DispatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}

// Components returns the identities of the failing components, in the order
// they first failed.
func (e *DispatchError) Components() []string {
	seen := make(map[string]struct{}, len(e.Failures))
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		if _, ok := seen[f.ComponentID]; ok {
			continue
		}
		seen[f.ComponentID] = struct{}{}
		ids = append(ids, f.ComponentID)
	}
	return ids
}

func quote(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = fmt.Sprintf("%q", id)
	}
	return out
}
