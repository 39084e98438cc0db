package registry

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/bridgeloader/internal/component"
)

var (
	ErrDuplicateComponent = errors.New("duplicate component")
	ErrInvalidDescriptor  = errors.New("invalid component descriptor")
)

// DuplicateComponentError reports a primary identity that is already taken.
type DuplicateComponentError struct {
	ID     string
	Origin component.Origin
	Source string

	// ExistingID and ExistingOrigin describe the component holding the identity.
	ExistingID     string
	ExistingOrigin component.Origin
	// ExistingIsAlias is set when the identity is held as a provides entry.
	ExistingIsAlias bool
}

func (e *DuplicateComponentError) Error() string {
	held := "registered"
	if e.ExistingIsAlias {
		held = "provided"
	}
	msg := fmt.Sprintf("duplicate %s component %q", e.Origin, e.ID)
	if e.Source != "" {
		msg += fmt.Sprintf(" (%s)", e.Source)
	}
	return msg + fmt.Sprintf(": identity already %s by %s component %q", held, e.ExistingOrigin, e.ExistingID)
}

// Is lets errors.Is match ErrDuplicateComponent.
func (e *DuplicateComponentError) Is(target error) bool {
	return target == ErrDuplicateComponent
}
