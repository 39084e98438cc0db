package hcl

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/bridgeloader/internal/component"
	"github.com/specialistvlad/bridgeloader/internal/config"
	"github.com/specialistvlad/bridgeloader/internal/ctxlog"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is the top-level structure of a loader configuration file.
type fileRoot struct {
	Mappings *mappingsBlock `hcl:"mappings,block"`
	Origins  []*originBlock `hcl:"origin,block"`
	Aliases  hcl.Expression `hcl:"aliases,optional"`
}

type mappingsBlock struct {
	Resource         string `hcl:"resource,optional"`
	Names            string `hcl:"names,optional"`
	SourceNamespace  string `hcl:"source_namespace,optional"`
	RuntimeNamespace string `hcl:"runtime_namespace,optional"`
	AlreadyMapped    bool   `hcl:"already_mapped,optional"`
}

type originBlock struct {
	Name string `hcl:"name,label"`
	Path string `hcl:"path"`
}

// Load parses the configuration file at path into the unified model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return l.decode(ctx, hclFile, filepath.Dir(path))
}

// LoadBytes parses configuration held in memory. Relative paths are resolved
// against baseDir.
func (l *Loader) LoadBytes(ctx context.Context, src []byte, filename, baseDir string) (*config.Model, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return l.decode(ctx, hclFile, baseDir)
}

func (l *Loader) decode(ctx context.Context, hclFile *hcl.File, baseDir string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode configuration: %w", diags)
	}

	model := config.Defaults()
	if mb := root.Mappings; mb != nil {
		m := model.Mappings
		m.Resource = resolvePath(baseDir, mb.Resource)
		m.Names = resolvePath(baseDir, mb.Names)
		m.AlreadyMapped = mb.AlreadyMapped
		if mb.SourceNamespace != "" {
			m.SourceNamespace = mb.SourceNamespace
			m.RuntimeNamespace = mb.SourceNamespace
		}
		if mb.RuntimeNamespace != "" {
			m.RuntimeNamespace = mb.RuntimeNamespace
		}
	}

	for _, ob := range root.Origins {
		origin, ok := component.ParseOrigin(ob.Name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown origin %q (want %q or %q)", config.ErrInvalidConfig, ob.Name, component.OriginGuest, component.OriginHost)
		}
		model.Origins = append(model.Origins, &config.Origin{Origin: origin, Path: resolvePath(baseDir, ob.Path)})
	}

	aliases, err := decodeAliases(root.Aliases)
	if err != nil {
		return nil, err
	}
	if aliases != nil {
		model.Aliases = aliases
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("HCL loading complete.", "origins", len(model.Origins), "aliases", len(model.Aliases))
	return model, nil
}

func resolvePath(baseDir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
