package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

func queryStatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stat <entry>",
		Short: "Display a resolved stat entry and its typed fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryStat(args[0])
		},
	}
	return cmd
}

func runQueryStat(id string) error {
	ctx := context.Background()

	p, err := openProject()
	if err != nil {
		return err
	}
	idx, _, err := p.load(ctx, true)
	if err != nil {
		return err
	}

	stat, ok := idx.Stat(id)
	if !ok || stat == nil {
		fmt.Fprintf(os.Stdout, "No stat found for %q.\n", id)
		return nil
	}

	fmt.Fprintf(os.Stdout, "Entry: %s\n", stat.EntryID)
	fmt.Fprintf(os.Stdout, "Kind: %s\n", stat.Kind)
	if stat.Using != "" {
		fmt.Fprintf(os.Stdout, "Using: %s\n", stat.Using)
	}
	if origin := idx.StatOrigin(id); origin != "" {
		fmt.Fprintf(os.Stdout, "Source: %s\n", origin)
	}

	if len(stat.Fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(stat.Fields))
	for key := range stat.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintln(os.Stdout, "Fields:")
	for _, key := range keys {
		value := stat.Fields[key]
		fmt.Fprintf(os.Stdout, "  %s (%s): %s\n", key, value.Type(), value)
	}
	return nil
}
