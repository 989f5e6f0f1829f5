package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/capprobe/internal/config"
	"github.com/hamed0406/capprobe/internal/logging"
)

type options struct {
	configPath string
}

// NewRootCommand builds the capprobe command tree.
func NewRootCommand() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:          "capprobe",
		Short:        "Run capability probes against the libraries this build links",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&o.configPath, "config", os.Getenv("CAPPROBE_CONFIG"), "YAML config file (env overrides it)")

	root.AddCommand(
		newRunCommand(o),
		newListCommand(o),
		newInfoCommand(o),
		newHealthCommand(),
		newServeCommand(o),
	)
	return root
}

func (o *options) load() (config.Config, error) {
	return config.Load(o.configPath)
}

func newLogger(cfg config.Config, console io.Writer) (*zap.Logger, error) {
	opts := []logging.Option{logging.WithLevel(cfg.LogLevel)}
	if cfg.LogConsole {
		opts = append(opts, logging.WithConsole(console))
	}
	return logging.NewLogger(cfg.LogDir, opts...)
}
