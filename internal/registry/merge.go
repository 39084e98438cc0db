package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/bridgeloader/internal/component"
	"github.com/specialistvlad/bridgeloader/internal/ctxlog"
)

// RegisterGuest merges the guest-ecosystem discovery feed.
func (r *Registry) RegisterGuest(ctx context.Context, components []*component.Descriptor) error {
	return r.Register(ctx, component.OriginGuest, components)
}

// RegisterHost merges the host-ecosystem discovery feed.
func (r *Registry) RegisterHost(ctx context.Context, components []*component.Descriptor) error {
	return r.Register(ctx, component.OriginHost, components)
}

// Register merges the components of one origin, in input order. Merging an
// origin that is already loaded does nothing.
//
// The whole batch is checked before anything is inserted: on error the
// registry, including the origin's loaded flag, is left as it was.
func (r *Registry) Register(ctx context.Context, origin component.Origin, components []*component.Descriptor) error {
	logger := ctxlog.FromContext(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded[origin] {
		logger.Debug("Origin already merged, skipping.", "origin", origin)
		return nil
	}
	if err := r.check(origin, components); err != nil {
		return err
	}

	for _, c := range components {
		r.index[c.ID] = c
		r.primary[c.ID] = struct{}{}
		r.ordered = append(r.ordered, c)
		r.origins[c] = origin
		for _, alt := range c.Provides {
			if holder, taken := r.index[alt]; taken {
				if holder != c {
					logger.Debug("Provided identity already claimed, keeping first.", "identity", alt, "component", c.ID, "holder", holder.ID)
				}
				continue
			}
			r.index[alt] = c
		}
	}
	r.loaded[origin] = true

	logger.Info("Components merged.", "origin", origin, "count", len(components), "total", len(r.ordered))
	return nil
}

// check replays the insertion of components against a scratch view of the
// index and reports the first descriptor that could not be inserted.
func (r *Registry) check(origin component.Origin, components []*component.Descriptor) error {
	type claim struct {
		holder *component.Descriptor
		alias  bool
	}
	staged := make(map[string]claim)

	for i, c := range components {
		if c == nil {
			return fmt.Errorf("%w: %s component #%d is nil", ErrInvalidDescriptor, origin, i)
		}
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("%w: %s component #%d (%s) has no identity", ErrInvalidDescriptor, origin, i, c.Source)
		}

		if holder, taken := r.index[c.ID]; taken {
			_, isPrimary := r.primary[c.ID]
			return &DuplicateComponentError{
				ID: c.ID, Origin: origin, Source: c.Source,
				ExistingID: holder.ID, ExistingOrigin: r.origins[holder], ExistingIsAlias: !isPrimary,
			}
		}
		if prev, taken := staged[c.ID]; taken {
			return &DuplicateComponentError{
				ID: c.ID, Origin: origin, Source: c.Source,
				ExistingID: prev.holder.ID, ExistingOrigin: origin, ExistingIsAlias: prev.alias,
			}
		}
		staged[c.ID] = claim{holder: c}

		for _, alt := range c.Provides {
			if _, taken := r.index[alt]; taken {
				continue
			}
			if _, taken := staged[alt]; !taken {
				staged[alt] = claim{holder: c, alias: true}
			}
		}
	}
	return nil
}
