package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/lehigh-university-libraries/ocrchat/internal/config"
	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the selectable chat models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			catalog, err := newCatalog(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tBACKEND\tLABEL")
			for _, o := range catalog.Options() {
				id := o.ID
				if id == cfg.DefaultModel {
					id += " (default)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", id, o.Backend, o.Label)
			}
			return w.Flush()
		},
	}
}
