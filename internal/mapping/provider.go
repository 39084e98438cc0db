package mapping

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/bridgeloader/internal/ctxlog"
)

var (
	// ErrMappingsMissing is returned when the backing resource does not exist
	// and the provider is not running in already-mapped mode.
	ErrMappingsMissing = errors.New("missing mappings resource")
	// ErrMappingsUnavailable is returned by an already-mapped provider whose
	// resource does not exist. Callers are expected to check Available first.
	ErrMappingsUnavailable = errors.New("mappings unavailable")
)

// Source opens the backing mapping resource. A missing resource is reported
// with an error matching fs.ErrNotExist.
type Source interface {
	Open() (io.ReadCloser, error)
}

// FileSource reads the mapping resource from a file path.
type FileSource string

func (s FileSource) Open() (io.ReadCloser, error) {
	return os.Open(string(s))
}

type fsSource struct {
	fsys fs.FS
	name string
}

// FSSource reads the mapping resource from a file system, such as an embed.FS.
func FSSource(fsys fs.FS, name string) Source {
	return fsSource{fsys: fsys, name: name}
}

func (s fsSource) Open() (io.ReadCloser, error) {
	return s.fsys.Open(s.name)
}

// Options configures a Provider.
type Options struct {
	Source Source
	// SourceNamespace is the namespace derived names are computed from.
	SourceNamespace string
	// RuntimeNamespace is the namespace the host runs in.
	RuntimeNamespace string
	// Derive is required when RuntimeNamespace is not declared by the resource.
	Derive DeriveFunc
	// AlreadyMapped tolerates a missing resource: the host already runs with
	// the names components were built against.
	AlreadyMapped bool
}

type loadResult struct {
	resolver *Resolver
	err      error
}

// Provider builds a Resolver on first use and hands out the same instance
// afterwards. The outcome of the first build, including failure, is final.
type Provider struct {
	opts   Options
	mu     sync.Mutex
	result atomic.Pointer[loadResult]
}

// NewProvider returns a provider that has not loaded anything yet.
func NewProvider(opts Options) *Provider {
	return &Provider{opts: opts}
}

// Resolver returns the shared resolver, building it if this is the first call.
// Concurrent first callers block until the single build completes.
func (p *Provider) Resolver(ctx context.Context) (*Resolver, error) {
	if res := p.result.Load(); res != nil {
		return res.resolver, res.err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if res := p.result.Load(); res != nil {
		return res.resolver, res.err
	}

	res := p.load(ctx)
	p.result.Store(res)
	return res.resolver, res.err
}

// Available reports whether a resolver can be used. It triggers the build.
func (p *Provider) Available(ctx context.Context) bool {
	r, err := p.Resolver(ctx)
	return err == nil && r != nil
}

func (p *Provider) load(ctx context.Context) *loadResult {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading mappings.", "source_namespace", p.opts.SourceNamespace, "runtime_namespace", p.opts.RuntimeNamespace)

	var (
		rc  io.ReadCloser
		err error
	)
	if p.opts.Source == nil {
		err = fs.ErrNotExist
	} else {
		rc, err = p.opts.Source.Open()
	}
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return &loadResult{err: fmt.Errorf("failed to open mappings resource: %w", err)}
		}
		if p.opts.AlreadyMapped {
			logger.Info("No mappings resource; names are used as-is.")
			return &loadResult{err: ErrMappingsUnavailable}
		}
		return &loadResult{err: fmt.Errorf("%w: %w", ErrMappingsMissing, err)}
	}
	defer rc.Close()

	primary, err := ReadTSRG(rc)
	if err != nil {
		return &loadResult{err: fmt.Errorf("failed to load mappings: %w", err)}
	}

	table, err := Build(primary, p.opts.SourceNamespace, p.opts.RuntimeNamespace, p.opts.Derive)
	if err != nil {
		return &loadResult{err: fmt.Errorf("failed to derive namespace %q: %w", p.opts.RuntimeNamespace, err)}
	}

	resolver, err := NewResolver(table, p.opts.RuntimeNamespace)
	if err != nil {
		return &loadResult{err: err}
	}

	logger.Info("Mappings loaded.", "namespaces", table.Namespaces(), "classes", len(table.classes), "derived", table != primary)
	return &loadResult{resolver: resolver}
}
