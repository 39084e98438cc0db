package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/specialistvlad/bridgeloader/internal/component"
	"github.com/specialistvlad/bridgeloader/internal/ctxlog"
	"github.com/specialistvlad/bridgeloader/internal/fsutil"
)

// GuestManifestSuffix is the file name suffix of guest manifests.
const GuestManifestSuffix = ".mod.json"

var ErrInvalidManifest = errors.New("invalid manifest")

type guestManifest struct {
	SchemaVersion    int                        `json:"schemaVersion"`
	ID               string                     `json:"id"`
	Version          string                     `json:"version"`
	Name             string                     `json:"name"`
	Description      string                     `json:"description"`
	Provides         []string                   `json:"provides"`
	Entrypoints      map[string][]guestEndpoint `json:"entrypoints"`
	LanguageAdapters map[string]string          `json:"languageAdapters"`
}

// guestEndpoint accepts either a bare value or {"adapter": ..., "value": ...}.
type guestEndpoint component.Entrypoint

func (e *guestEndpoint) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &e.Value)
	}
	var obj struct {
		Adapter string `json:"adapter"`
		Value   string `json:"value"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	e.Adapter, e.Value = obj.Adapter, obj.Value
	return nil
}

// ReadGuest reads every guest manifest below root.
func ReadGuest(ctx context.Context, root string) ([]*component.Descriptor, error) {
	logger := ctxlog.FromContext(ctx)

	paths, err := fsutil.FindFilesBySuffix(root, GuestManifestSuffix)
	if err != nil {
		return nil, fmt.Errorf("failed to walk guest components at %s: %w", root, err)
	}
	if len(paths) == 0 {
		logger.Warn("No guest manifests found.", "path", root)
		return nil, nil
	}

	out := make([]*component.Descriptor, 0, len(paths))
	for _, path := range paths {
		d, err := readGuestManifest(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("Read guest manifest.", "path", path, "id", d.ID)
		out = append(out, d)
	}
	return out, nil
}

func readGuestManifest(path string) (*component.Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read guest manifest %s: %w", path, err)
	}

	var m guestManifest
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, path, err)
	}
	if strings.TrimSpace(m.ID) == "" {
		return nil, fmt.Errorf("%w: %s: missing id", ErrInvalidManifest, path)
	}

	d := &component.Descriptor{
		ID:               m.ID,
		Origin:           component.OriginGuest,
		Name:             m.Name,
		Version:          m.Version,
		Description:      m.Description,
		Source:           path,
		Provides:         m.Provides,
		LanguageAdapters: m.LanguageAdapters,
	}
	if len(m.Entrypoints) > 0 {
		d.Entrypoints = make(map[string][]component.Entrypoint, len(m.Entrypoints))
		for key, eps := range m.Entrypoints {
			for _, ep := range eps {
				if strings.TrimSpace(ep.Value) == "" {
					return nil, fmt.Errorf("%w: %s: entrypoint %q has an empty value", ErrInvalidManifest, path, key)
				}
				d.Entrypoints[key] = append(d.Entrypoints[key], component.Entrypoint(ep))
			}
		}
	}
	return d, nil
}
