package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/verdictdev/verdict/internal/config"
	"github.com/verdictdev/verdict/internal/providers"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Manage AI providers",
}

var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured providers and their status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PROVIDER\tMODEL\tROLE\tSTATUS")
		for _, pc := range cfg.Providers {
			role := "fallback"
			if pc.ID == cfg.Primary {
				role = "primary"
			}
			status := "missing credentials"
			if p, err := providers.New(pc); err != nil {
				status = "unknown"
			} else if p.Validate() {
				status = "ready"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", pc.ID, pc.Model, role, status)
		}
		return tw.Flush()
	},
}

func init() {
	providersCmd.AddCommand(providersListCmd)
}
