package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/bridgeloader/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLoader(t *testing.T, alreadyMapped bool) string {
	t.Helper()
	mappings := `
		mappings {
			resource          = "mappings/obf_srg.tsrg"
			names             = "mappings/srg_named.tsrg"
			source_namespace  = "srg"
			runtime_namespace = "named"
		}`
	if alreadyMapped {
		mappings = `
		mappings {
			resource       = "mappings/absent.tsrg"
			already_mapped = true
		}`
	}
	dir := testutil.WriteFiles(t, map[string]string{
		"loader.hcl": mappings + `
			origin "host"  { path = "mods/host" }
			origin "guest" { path = "mods/guest" }
			aliases = { sodium = ["embeddium"] }
		`,
		"mappings/obf_srg.tsrg":   testutil.ObfSRGMappings,
		"mappings/srg_named.tsrg": testutil.SRGNamedMappings,
		"mods/host/mods.toml": `
[[mods]]
modId = "cloth_config"
version = "11.1.0"
[mods.entrypoints]
main = ["print.Announcer"]
`,
		"mods/guest/sodium.mod.json": `{"id": "sodium", "version": "0.5.8", "entrypoints": {"main": ["print.Announcer"]}}`,
	})
	return filepath.Join(dir, "loader.hcl")
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	err := Execute(context.Background(), args, out, errOut)
	return out.String(), errOut.String(), err
}

func TestList(t *testing.T) {
	cfg := writeLoader(t, false)

	out, logs, err := execute(t, "--config", cfg, "list")
	require.NoError(t, err, logs)
	assert.Contains(t, out, "ID")
	assert.Regexp(t, `cloth_config\s+host\s+11\.1\.0\s+cloth-config`, out)
	assert.Regexp(t, `sodium\s+guest\s+0\.5\.8\s+embeddium`, out)
	assert.NotContains(t, out, "level=", "logs are not mixed into command output")
}

func TestInvoke(t *testing.T) {
	cfg := writeLoader(t, false)

	out, _, err := execute(t, "-c", cfg, "invoke", "main")
	require.NoError(t, err)
	assert.Equal(t, "cloth_config initialized\nsodium initialized\n", out)

	_, _, err = execute(t, "-c", cfg, "invoke")
	require.Error(t, err, "at least one key is required")
}

func TestMapCommands(t *testing.T) {
	cfg := writeLoader(t, false)

	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "class", args: []string{"map", "class", "obf", "a.b"}, want: "net.example.Block\n"},
		{name: "unmap", args: []string{"map", "unmap", "obf", "net.example.Block"}, want: "a.b\n"},
		{name: "field", args: []string{"map", "field", "obf", "a/b", "a"}, want: "hardness\n"},
		{name: "method", args: []string{"map", "method", "obf", "a/b", "a", "(La/c;)V"}, want: "onUse\n"},
		{name: "record accessor", args: []string{"map", "method", "srg", "net/example/Point", "f_30001_", "()I"}, want: "x\n"},
		{name: "descriptor", args: []string{"map", "desc", "obf", "(La/c;)La/b;"}, want: "(Lnet/example/Item;)Lnet/example/Block;\n"},
		{name: "absent owner", args: []string{"map", "field", "obf", "zz/Missing", "q"}, want: "q\n"},
		{name: "namespaces", args: []string{"namespaces"}, want: "obf\nsrg\nnamed (runtime)\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, logs, err := execute(t, append([]string{"-c", cfg}, tc.args...)...)
			require.NoError(t, err, logs)
			assert.Equal(t, tc.want, out)
		})
	}

	t.Run("unknown namespace", func(t *testing.T) {
		_, _, err := execute(t, "-c", cfg, "map", "class", "mcp", "a.b")
		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 1, exitErr.Code)
		assert.Contains(t, exitErr.Message, "unknown namespace")
	})
}

func TestMap_AlreadyMappedEchoesInput(t *testing.T) {
	cfg := writeLoader(t, true)

	out, _, err := execute(t, "-c", cfg, "map", "method", "srg", "a/b", "m_1_", "()V")
	require.NoError(t, err)
	assert.Equal(t, "m_1_\n", out)

	_, _, err = execute(t, "-c", cfg, "namespaces")
	require.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	cfg := writeLoader(t, false)
	t.Setenv("BRIDGELOADER_CONFIG", cfg)
	t.Setenv("BRIDGELOADER_LOG_FORMAT", "json")
	t.Setenv("BRIDGELOADER_LOG_LEVEL", "debug")

	out, logs, err := execute(t, "invoke", "main")
	require.NoError(t, err)
	assert.Contains(t, out, "sodium initialized")
	assert.Contains(t, logs, `"level":"DEBUG"`)

	t.Setenv("BRIDGELOADER_LOG_LEVEL", "loud")
	_, _, err = execute(t, "list")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
	assert.Contains(t, exitErr.Message, "invalid log-level")

	_, _, err = execute(t, "--log-level", "warn", "list")
	require.NoError(t, err, "flags take precedence over the environment")
}

func TestUnknownFlag(t *testing.T) {
	_, _, err := execute(t, "list", "--bogus")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 2, exitErr.Code)
}
