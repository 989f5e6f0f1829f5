package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/capprobe/internal/app"
	"github.com/hamed0406/capprobe/internal/httpapi"
)

func newRunCommand(o *options) *cobra.Command {
	var (
		asJSON bool
		only   []string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the configured probes once and print the report",
		Long: `Runs every configured probe in order and prints one line per probe plus
an N/M summary. Probe failures are part of the report: the exit code is
non-zero only when the harness itself cannot run (bad config, unknown or
duplicate probe names).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load()
			if err != nil {
				return err
			}
			if len(only) > 0 {
				cfg.Probes = only
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer logger.Sync()

			a, err := app.New(cfg, logger)
			if err != nil {
				return err
			}
			rep, err := a.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			body := httpapi.BuildHealthBody(rep)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), body)
			}
			renderBody(cmd.OutOrStdout(), body, time.Now())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().StringSliceVar(&only, "only", nil, "run only these probes, in this order (e.g. hash,token)")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
