package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hamed0406/capprobe/internal/probe"
)

func newInfoCommand(o *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the Go runtime and the module version behind each configured probe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.load()
			if err != nil {
				return err
			}
			reg, err := probe.NewCatalog(cfg).BuildConfigured()
			if err != nil {
				return err
			}
			libs := probe.Inventory(reg.Names())

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"runtime": probe.GoVersion(), "libraries": libs})
			}

			th := newTheme(out)
			fmt.Fprintf(out, "%s %s\n", th.bold.Render("Go runtime:"), probe.GoVersion())
			for _, l := range libs {
				fmt.Fprintf(out, "  %-12s %-40s %s\n", l.Kind, l.Module, th.muted.Render(l.Version))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the inventory as JSON")
	return cmd
}
