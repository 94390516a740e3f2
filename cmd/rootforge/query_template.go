package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rootforge/internal/templates"
)

func queryTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template <map-key>",
		Short: "Display a template after inheritance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryTemplate(args[0])
		},
	}
	return cmd
}

func queryChildrenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "children <map-key>",
		Short: "List the direct children of a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryChildren(args[0])
		},
	}
	return cmd
}

func runQueryTemplate(key string) error {
	ctx := context.Background()

	p, err := openProject()
	if err != nil {
		return err
	}
	idx, _, err := p.load(ctx, true)
	if err != nil {
		return err
	}

	id, ok := idx.Forest.Lookup(key)
	if !ok {
		fmt.Fprintf(os.Stdout, "No template found for %q.\n", key)
		return nil
	}
	printTemplate(idx.Forest.Record(id))

	if parent, ok := idx.Forest.Parent(id); ok {
		fmt.Fprintf(os.Stdout, "Parent: %s\n", templateLine(idx.Forest, parent))
	}
	if stat, ok := idx.StatsFor(id); ok {
		fmt.Fprintf(os.Stdout, "Stats kind: %s (%d fields)\n", stat.Kind, len(stat.Fields))
	}
	return nil
}

func printTemplate(rec templates.Record) {
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(os.Stdout, "%s: %s\n", label, value)
		}
	}
	field("MapKey", rec.MapKey)
	field("Name", rec.Name)
	field("Type", string(rec.Type))
	field("Pak", rec.PakOrigin)
	field("ParentTemplateId", rec.ParentTemplateID)
	field("DisplayName", rec.DisplayName)
	field("Description", rec.Description)
	field("Icon", rec.Icon)
	field("Stats", rec.StatsRef)
	field("CharacterVisualResourceID", rec.CharacterVisualResourceID)
	field("VisualTemplate", rec.VisualTemplate)
}

func runQueryChildren(key string) error {
	ctx := context.Background()

	p, err := openProject()
	if err != nil {
		return err
	}
	idx, _, err := p.load(ctx, true)
	if err != nil {
		return err
	}

	id, ok := idx.Forest.Lookup(key)
	if !ok {
		fmt.Fprintf(os.Stdout, "No template found for %q.\n", key)
		return nil
	}
	children := idx.Forest.Children(id)
	if len(children) == 0 {
		fmt.Fprintln(os.Stdout, "No children.")
		return nil
	}
	for _, child := range children {
		fmt.Fprintf(os.Stdout, "  - %s\n", templateLine(idx.Forest, child))
	}
	return nil
}
