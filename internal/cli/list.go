package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hamed0406/capprobe/internal/probe"
)

func newListCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured probes in run order, then the other available kinds",
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

			out := cmd.OutOrStdout()
			enabled := reg.Names()
			fmt.Fprintf(out, "Configured (%d):\n", len(enabled))
			for i, n := range enabled {
				fmt.Fprintf(out, "  %2d. %s\n", i+1, n)
			}

			var rest []string
			for _, k := range probe.NewCatalog(cfg).Kinds() {
				if !slices.Contains(enabled, k) {
					rest = append(rest, k)
				}
			}
			if len(rest) > 0 {
				fmt.Fprintf(out, "Available (%d):\n", len(rest))
				for _, n := range rest {
					fmt.Fprintf(out, "      %s\n", n)
				}
			}
			return nil
		},
	}
}
