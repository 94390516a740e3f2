package main

import "github.com/spf13/cobra"

func queryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query loaded data or an export target from the CLI",
	}
	cmd.AddCommand(queryStatCmd())
	cmd.AddCommand(queryTemplateCmd())
	cmd.AddCommand(queryChildrenCmd())
	cmd.AddCommand(querySQLCmd())
	cmd.AddCommand(queryCypherCmd())
	return cmd
}
