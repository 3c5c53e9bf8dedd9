package app

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/AssocCMS/AssocCMS/internal/rbac"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(rolesCmd)
}

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Print the permissions of every role and the admin pages they can open",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printRoles(cmd, rbac.DefaultTable())
	},
}

func printRoles(cmd *cobra.Command, table *rbac.Table) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "PERMISSION\t%s\n", strings.Join(roleNames(), "\t"))

	for _, p := range rbac.Permissions() {
		row := make([]string, 0, len(rbac.Roles()))
		for _, r := range rbac.Roles() {
			mark := "-"
			if table.HasPermission(r, p) {
				mark = "x"
			}

			row = append(row, mark)
		}

		fmt.Fprintf(w, "%s\t%s\n", p, strings.Join(row, "\t"))
	}

	if err := w.Flush(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	for _, r := range rbac.Roles() {
		prefixes := make([]string, 0)
		for _, rule := range table.Sections(r) {
			prefixes = append(prefixes, rule.Prefix)
		}

		fmt.Fprintf(out, "\n%s: %s", r, strings.Join(prefixes, " "))
	}

	_, err := fmt.Fprintln(out)

	return err
}

func roleNames() []string {
	names := make([]string, 0, len(rbac.Roles()))
	for _, r := range rbac.Roles() {
		names = append(names, r.String())
	}

	return names
}
