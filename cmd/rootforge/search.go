package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rootforge/internal/forest"
)

func searchCmd() *cobra.Command {
	var fuzzy bool
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Print the templates matching a query together with their ancestors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(strings.Join(args, " "), fuzzy, maxDepth)
		},
	}
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "Match query characters in order instead of as a substring")
	cmd.Flags().IntVar(&maxDepth, "depth", 0, "Maximum depth to print (0 for unlimited)")
	return cmd
}

func runSearch(query string, fuzzy bool, maxDepth int) error {
	ctx := context.Background()

	p, err := openProject()
	if err != nil {
		return err
	}
	idx, _, err := p.load(ctx, true)
	if err != nil {
		return err
	}

	matcher := forest.ContainsFold(query)
	if fuzzy {
		matcher = forest.Fuzzy(query)
	}
	view := forest.Search(idx.Forest, matcher)
	if view.Len() == 0 {
		fmt.Fprintf(os.Stdout, "No templates match %q.\n", query)
		return nil
	}
	renderTree(os.Stdout, idx.Forest, view, maxDepth)
	return nil
}
