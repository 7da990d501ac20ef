package cmd

import (
	"fmt"
	"text/tabwriter"

	"marketplace-web/internal/rbac"
	"marketplace-web/internal/rbac/presets"

	"github.com/spf13/cobra"
)

const publicLabel = "public"

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the route access policy",
	RunE: func(cmd *cobra.Command, args []string) error {
		checker, err := rbac.New(presets.Marketplace())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "PATH\tREQUIRES\tTITLE")
		for _, rule := range checker.Rules() {
			required := publicLabel
			if !rule.Public() {
				required = string(rule.Required)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", rule.Path, required, rule.Title)
		}
		fmt.Fprintf(w, "\nunauthorized visitors are sent to %s\n", checker.Fallback())
		return w.Flush()
	},
}
