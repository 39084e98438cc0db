package discovery

import (
	"context"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/specialistvlad/bridgeloader/internal/component"
	"github.com/specialistvlad/bridgeloader/internal/ctxlog"
	"github.com/specialistvlad/bridgeloader/internal/fsutil"
)

// HostManifestName is the file name of host manifests.
const HostManifestName = "mods.toml"

type hostFile struct {
	Mods []hostMod `toml:"mods"`
}

type hostMod struct {
	ModID       string              `toml:"modId"`
	Version     string              `toml:"version"`
	DisplayName string              `toml:"displayName"`
	Description string              `toml:"description"`
	Provides    []string            `toml:"provides"`
	Entrypoints map[string][]string `toml:"entrypoints"`
}

// ReadHost reads every host manifest below root.
func ReadHost(ctx context.Context, root string) ([]*component.Descriptor, error) {
	logger := ctxlog.FromContext(ctx)

	paths, err := fsutil.FindFilesBySuffix(root, HostManifestName)
	if err != nil {
		return nil, fmt.Errorf("failed to walk host components at %s: %w", root, err)
	}
	if len(paths) == 0 {
		logger.Warn("No host manifests found.", "path", root)
		return nil, nil
	}

	var out []*component.Descriptor
	for _, path := range paths {
		var raw hostFile
		meta, err := toml.DecodeFile(path, &raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			logger.Debug("Ignoring host manifest keys.", "path", path, "keys", len(undecoded))
		}

		for i, m := range raw.Mods {
			if strings.TrimSpace(m.ModID) == "" {
				return nil, fmt.Errorf("%w: %s: mods[%d] has no modId", ErrInvalidManifest, path, i)
			}
			d := &component.Descriptor{
				ID:          m.ModID,
				Origin:      component.OriginHost,
				Name:        m.DisplayName,
				Version:     m.Version,
				Description: m.Description,
				Source:      path,
				Provides:    HostProvides(m.ModID, m.Provides),
			}
			for key, values := range m.Entrypoints {
				if d.Entrypoints == nil {
					d.Entrypoints = make(map[string][]component.Entrypoint, len(m.Entrypoints))
				}
				for _, v := range values {
					d.Entrypoints[key] = append(d.Entrypoints[key], component.Entrypoint{Value: v})
				}
			}
			logger.Debug("Read host manifest entry.", "path", path, "id", d.ID)
			out = append(out, d)
		}
	}
	return out, nil
}

// HostProvides returns the declared provides list or, when it is empty and the
// identity contains underscores, a guessed guest-style identity with hyphens.
// Some components publish the same project as foo_bar on the host and as
// foo-bar on the guest ecosystem.
func HostProvides(id string, declared []string) []string {
	if len(declared) == 0 && strings.Contains(id, "_") {
		return []string{strings.ReplaceAll(id, "_", "-")}
	}
	return declared
}
