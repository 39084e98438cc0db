package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/bridgeloader/internal/app"
	"github.com/specialistvlad/bridgeloader/internal/hcl"
	"github.com/specialistvlad/bridgeloader/modules/print"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "BRIDGELOADER"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Execute runs the command line against args. Command output goes to outW,
// logs and usage errors to errW. Any failure is returned as an *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: 1, Message: err.Error()}
}

// NewRootCommand builds the command tree. Every call gets its own viper
// instance, so commands built side by side do not share state.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "bridgeloader",
		Short: "Run components of one ecosystem inside a host of another",
		Long: `bridgeloader reads guest and host component manifests into one registry,
dispatches their entrypoints and translates names between mapping namespaces.

Settings are read from flags, then BRIDGELOADER_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	root.PersistentFlags().StringP("config", "c", "", "Path to the HCL loader configuration.")
	root.PersistentFlags().String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	root.PersistentFlags().String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	_ = v.BindPFlags(root.PersistentFlags())

	s := &session{v: v, outW: outW, errW: errW}
	root.AddCommand(
		s.listCommand(),
		s.invokeCommand(),
		s.namespacesCommand(),
		s.mapCommand(),
	)
	return root
}

// session builds the App lazily for whichever command runs.
type session struct {
	v    *viper.Viper
	outW io.Writer
	errW io.Writer
}

func (s *session) config() (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		ConfigPath: s.v.GetString("config"),
		LogLevel:   s.v.GetString("log-level"),
		LogFormat:  s.v.GetString("log-format"),
	})
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, nil
}

func (s *session) app(ctx context.Context) (*app.App, error) {
	cfg, err := s.config()
	if err != nil {
		return nil, err
	}
	a, err := app.NewApp(ctx, s.errW, cfg, hcl.NewLoader(), &print.Module{Out: s.outW})
	if err != nil {
		return nil, fmt.Errorf("startup failed: %w", err)
	}
	return a, nil
}
