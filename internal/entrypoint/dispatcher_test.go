package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/specialistvlad/bridgeloader/internal/component"
	"github.com/specialistvlad/bridgeloader/internal/ctxlog"
	"github.com/specialistvlad/bridgeloader/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is an Initializer that counts its calls and may fail or panic.
type recorder struct {
	owner string
	calls atomic.Int32
	err   error
	crash any
}

func (r *recorder) OnInitialize(context.Context) error {
	r.calls.Add(1)
	if r.crash != nil {
		panic(r.crash)
	}
	return r.err
}

type notAnInitializer struct{}

func comp(id string, entrypoints map[string][]component.Entrypoint) *component.Descriptor {
	return &component.Descriptor{ID: id, Source: id + ".mod.json", Entrypoints: entrypoints}
}

func mainKey(values ...string) map[string][]component.Entrypoint {
	eps := make([]component.Entrypoint, len(values))
	for i, v := range values {
		eps[i] = component.Entrypoint{Value: v}
	}
	return map[string][]component.Entrypoint{"main": eps}
}

func invokeInit(ctx context.Context, d *Dispatcher, key string) error {
	return Invoke(ctx, d, key, func(in Initializer) error { return in.OnInitialize(ctx) })
}

func TestInvoke_NoSubscribers(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	d, err := New(ctx, []*component.Descriptor{comp("a", mainKey("sym.A"))}, handlers.New())
	require.NoError(t, err)

	called := false
	err = Invoke(ctx, d, "client", func(Initializer) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
	assert.False(t, d.HasEntrypoints("client"))
	assert.True(t, d.HasEntrypoints("main"))
	assert.Empty(t, d.Instances("a"), "nothing is created before a dispatch touches it")
}

func TestInvoke_MiddleFailureDoesNotStopThePass(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	boom := errors.New("boom")

	first, second, third := &recorder{owner: "first"}, &recorder{owner: "second", err: boom}, &recorder{owner: "third"}
	symbols := handlers.New()
	symbols.RegisterHandler("sym.First", handlers.Value(first))
	symbols.RegisterHandler("sym.Second", handlers.Value(second))
	symbols.RegisterHandler("sym.Third", handlers.Value(third))

	d, err := New(ctx, []*component.Descriptor{
		comp("first", mainKey("sym.First")),
		comp("second", mainKey("sym.Second")),
		comp("third", mainKey("sym.Third")),
	}, symbols)
	require.NoError(t, err)

	err = invokeInit(ctx, d, "main")
	require.Error(t, err)

	assert.Equal(t, int32(1), first.calls.Load())
	assert.Equal(t, int32(1), second.calls.Load())
	assert.Equal(t, int32(1), third.calls.Load())

	var dispatchErr *DispatchError
	require.True(t, errors.As(err, &dispatchErr))
	assert.Equal(t, "main", dispatchErr.Key)
	assert.Equal(t, []string{"second"}, dispatchErr.Components())
	require.Len(t, dispatchErr.Failures, 1)
	assert.Equal(t, "sym.Second", dispatchErr.Failures[0].Value)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `could not execute entrypoint stage "main" due to errors, provided by "second"`)
}

func TestInvoke_PanicsBecomeFailures(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	ok, bad := &recorder{owner: "ok"}, &recorder{owner: "bad", crash: "kaboom"}
	symbols := handlers.New()
	symbols.RegisterHandler("sym.Bad", handlers.Value(bad))
	symbols.RegisterHandler("sym.Ok", handlers.Value(ok))

	d, err := New(ctx, []*component.Descriptor{
		comp("bad", mainKey("sym.Bad")),
		comp("ok", mainKey("sym.Ok")),
	}, symbols)
	require.NoError(t, err)

	err = invokeInit(ctx, d, "main")
	require.ErrorIs(t, err, ErrPanic)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Equal(t, int32(1), ok.calls.Load())
}

func TestInvoke_CreationFailures(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	ok := &recorder{owner: "ok"}
	symbols := handlers.New()
	symbols.RegisterHandler("sym.Ok", handlers.Value(ok))
	symbols.RegisterHandler("sym.Broken", &handlers.RegisteredHandler{
		New: func(*component.Descriptor) (any, error) { return nil, errors.New("cannot construct") },
	})
	symbols.RegisterHandler("sym.Explodes", &handlers.RegisteredHandler{
		New: func(*component.Descriptor) (any, error) { panic("constructor panic") },
	})

	d, err := New(ctx, []*component.Descriptor{
		comp("missing", mainKey("sym.Missing")),
		comp("broken", mainKey("sym.Broken")),
		comp("explodes", mainKey("sym.Explodes")),
		comp("ok", mainKey("sym.Ok")),
	}, symbols)
	require.NoError(t, err)

	err = invokeInit(ctx, d, "main")
	var dispatchErr *DispatchError
	require.True(t, errors.As(err, &dispatchErr))
	assert.Equal(t, []string{"missing", "broken", "explodes"}, dispatchErr.Components())
	assert.ErrorIs(t, err, ErrUnknownSymbol)
	assert.ErrorIs(t, err, ErrPanic)
	assert.Equal(t, int32(1), ok.calls.Load())
}

func TestInvoke_SkipsOtherTypes(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	initer := &recorder{owner: "init"}
	symbols := handlers.New()
	symbols.RegisterHandler("sym.Init", handlers.Value(initer))
	symbols.RegisterHandler("sym.Other", handlers.Value(notAnInitializer{}))

	d, err := New(ctx, []*component.Descriptor{
		comp("mixed", mainKey("sym.Other", "sym.Init")),
	}, symbols)
	require.NoError(t, err)

	require.NoError(t, invokeInit(ctx, d, "main"))
	assert.Equal(t, int32(1), initer.calls.Load())

	all, err := Entrypoints[any](ctx, d, "main")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestInstances_SharedAcrossKeys(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	var built atomic.Int32
	symbols := handlers.New()
	symbols.RegisterHandler("sym.Shared", &handlers.RegisteredHandler{
		New: func(owner *component.Descriptor) (any, error) {
			built.Add(1)
			return &recorder{owner: owner.ID}, nil
		},
	})

	c := comp("shared", map[string][]component.Entrypoint{
		"main":   {{Value: "sym.Shared"}},
		"client": {{Value: "sym.Shared"}},
	})
	d, err := New(ctx, []*component.Descriptor{c, comp("other", mainKey("sym.Shared"))}, symbols)
	require.NoError(t, err)
	assert.Equal(t, []string{"client", "main"}, d.Keys())

	require.NoError(t, invokeInit(ctx, d, "main"))
	require.NoError(t, invokeInit(ctx, d, "client"))

	assert.Equal(t, int32(2), built.Load(), "one instance per component and value")
	instances := d.Instances("shared")
	require.Len(t, instances, 1)
	assert.Equal(t, int32(2), instances[0].(*recorder).calls.Load())
	assert.Equal(t, "shared", instances[0].(*recorder).owner)
}

func TestContainers_ExposeProvider(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	symbols := handlers.New()
	symbols.RegisterHandler("sym.A", handlers.Value(&recorder{owner: "a"}))
	symbols.RegisterHandler("sym.B", handlers.Value(&recorder{owner: "b"}))

	a, b := comp("a", mainKey("sym.A")), comp("b", mainKey("sym.B"))
	d, err := New(ctx, []*component.Descriptor{a, b}, symbols)
	require.NoError(t, err)

	containers, err := Containers[Initializer](ctx, d, "main")
	require.NoError(t, err)
	require.Len(t, containers, 2)
	assert.Same(t, a, containers[0].Provider)
	assert.Equal(t, "sym.A", containers[0].Definition)
	assert.Same(t, b, containers[1].Provider)
}

// upperAdapter builds recorders named after the upper-cased value.
type upperAdapter struct{}

func (upperAdapter) Create(c *component.Descriptor, value string) (any, error) {
	return &recorder{owner: c.ID + ":" + strings.ToUpper(value)}, nil
}

func TestNew_LanguageAdapters(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	symbols := handlers.New()
	symbols.RegisterHandler("adapters.Upper", handlers.Value(upperAdapter{}))
	symbols.RegisterHandler("adapters.Func", handlers.Value(AdapterFunc(func(c *component.Descriptor, value string) (any, error) {
		return &recorder{owner: fmt.Sprintf("%s:%s", c.ID, value)}, nil
	})))
	symbols.RegisterHandler("not.Adapter", handlers.Value(notAnInitializer{}))
	symbols.RegisterHandler("adapters.Crash", &handlers.RegisteredHandler{
		New: func(*component.Descriptor) (any, error) { panic("adapter constructor failed") },
	})

	provider := &component.Descriptor{
		ID:               "kotlin_adapter",
		LanguageAdapters: map[string]string{"upper": "adapters.Upper", "func": "adapters.Func"},
	}
	user := comp("user", map[string][]component.Entrypoint{
		"main": {{Adapter: "upper", Value: "init"}, {Adapter: "func", Value: "x"}},
	})

	t.Run("declared adapters create targets", func(t *testing.T) {
		d, err := New(ctx, []*component.Descriptor{provider, user}, symbols)
		require.NoError(t, err)

		containers, err := Containers[*recorder](ctx, d, "main")
		require.NoError(t, err)
		require.Len(t, containers, 2)
		assert.Equal(t, "user:INIT", containers[0].Entrypoint.owner)
		assert.Equal(t, "user:x", containers[1].Entrypoint.owner)
	})

	t.Run("unknown adapter", func(t *testing.T) {
		_, err := New(ctx, []*component.Descriptor{user}, symbols)
		require.ErrorIs(t, err, ErrUnknownAdapter)
		assert.Contains(t, err.Error(), "failed to setup component user (user.mod.json)")
	})

	t.Run("duplicate adapter key", func(t *testing.T) {
		again := &component.Descriptor{ID: "again", LanguageAdapters: map[string]string{"upper": "adapters.Upper"}}
		_, err := New(ctx, []*component.Descriptor{provider, again}, symbols)
		require.ErrorIs(t, err, ErrDuplicateAdapter)
	})

	t.Run("default key is reserved", func(t *testing.T) {
		c := &component.Descriptor{ID: "greedy", LanguageAdapters: map[string]string{DefaultAdapter: "adapters.Upper"}}
		_, err := New(ctx, []*component.Descriptor{c}, symbols)
		require.ErrorIs(t, err, ErrDuplicateAdapter)
	})

	t.Run("missing symbol", func(t *testing.T) {
		c := &component.Descriptor{ID: "broken", LanguageAdapters: map[string]string{"x": "adapters.Missing"}}
		_, err := New(ctx, []*component.Descriptor{c}, symbols)
		require.ErrorIs(t, err, ErrUnknownSymbol)
	})

	t.Run("symbol is not an adapter", func(t *testing.T) {
		c := &component.Descriptor{ID: "broken", LanguageAdapters: map[string]string{"x": "not.Adapter"}}
		_, err := New(ctx, []*component.Descriptor{c}, symbols)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not an Adapter")
	})

	t.Run("constructor panics", func(t *testing.T) {
		c := &component.Descriptor{ID: "crashy", LanguageAdapters: map[string]string{"x": "adapters.Crash"}}
		_, err := New(ctx, []*component.Descriptor{c}, symbols)
		require.ErrorIs(t, err, ErrPanic)
		assert.Contains(t, err.Error(), `failed to instantiate language adapter "x" of "crashy"`)
		assert.Contains(t, err.Error(), "adapter constructor failed")
	})
}
