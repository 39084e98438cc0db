package app

import (
	"context"
	"fmt"
	"os"

	"github.com/specialistvlad/bridgeloader/internal/component"
	"github.com/specialistvlad/bridgeloader/internal/config"
	"github.com/specialistvlad/bridgeloader/internal/ctxlog"
	"github.com/specialistvlad/bridgeloader/internal/discovery"
	"github.com/specialistvlad/bridgeloader/internal/mapping"
	"github.com/specialistvlad/bridgeloader/internal/registry"
)

// loadComponents reads every configured discovery feed and merges it into reg
// in configuration order, then applies the alias table.
func loadComponents(ctx context.Context, model *config.Model, reg *registry.Registry) error {
	logger := ctxlog.FromContext(ctx)

	for _, o := range model.Origins {
		logger.Debug("Reading discovery feed.", "origin", o.Origin, "path", o.Path)

		var (
			components []*component.Descriptor
			err        error
		)
		switch o.Origin {
		case component.OriginGuest:
			components, err = discovery.ReadGuest(ctx, o.Path)
		case component.OriginHost:
			components, err = discovery.ReadHost(ctx, o.Path)
		default:
			err = fmt.Errorf("no discovery feed for origin %q", o.Origin)
		}
		if err != nil {
			return err
		}

		if err := reg.Register(ctx, o.Origin, components); err != nil {
			return err
		}
	}

	reg.AddAliases(model.Aliases)
	return nil
}

// newMappingProvider prepares the mapping provider. The host name table, when
// configured, is read here; the mapping resource itself is read on first use.
func newMappingProvider(ctx context.Context, cfg *config.Mappings) (*mapping.Provider, error) {
	opts := mapping.Options{
		SourceNamespace:  cfg.SourceNamespace,
		RuntimeNamespace: cfg.RuntimeNamespace,
		AlreadyMapped:    cfg.AlreadyMapped,
	}
	if cfg.Resource != "" {
		opts.Source = mapping.FileSource(cfg.Resource)
	}

	if cfg.Names != "" {
		derive, err := loadNameTable(cfg.Names)
		if err != nil {
			return nil, err
		}
		opts.Derive = derive
		ctxlog.FromContext(ctx).Debug("Host name table loaded.", "path", cfg.Names)
	}

	return mapping.NewProvider(opts), nil
}

// loadNameTable reads a TSRG table and derives names from its first namespace
// into its last.
func loadNameTable(path string) (mapping.DeriveFunc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open name table: %w", err)
	}
	defer f.Close()

	table, err := mapping.ReadTSRG(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read name table %s: %w", path, err)
	}
	ns := table.Namespaces()
	return mapping.NameTableDeriver(table, ns[0], ns[len(ns)-1])
}
