package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"rootforge/internal/forest"
)

var (
	nameStyle  = lipgloss.NewStyle().Bold(true)
	keyStyle   = lipgloss.NewStyle().Faint(true)
	typeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	statsStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	edgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// treeSource is a forest or a filtered view of one.
type treeSource interface {
	Roots() []forest.NodeID
	Children(id forest.NodeID) []forest.NodeID
}

func treeCmd() *cobra.Command {
	var rootKey string
	var maxDepth int
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the template forest",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(rootKey, maxDepth)
		},
	}
	cmd.Flags().StringVar(&rootKey, "root", "", "Print only the subtree under this map key")
	cmd.Flags().IntVar(&maxDepth, "depth", 0, "Maximum depth to print (0 for unlimited)")
	return cmd
}

func runTree(rootKey string, maxDepth int) error {
	ctx := context.Background()

	p, err := openProject()
	if err != nil {
		return err
	}
	idx, _, err := p.load(ctx, true)
	if err != nil {
		return err
	}

	var src treeSource = idx.Forest
	if rootKey != "" {
		id, ok := idx.Forest.Lookup(rootKey)
		if !ok {
			return fmt.Errorf("template %q not found", rootKey)
		}
		src = subtree{Forest: idx.Forest, root: id}
	}
	renderTree(os.Stdout, idx.Forest, src, maxDepth)
	return nil
}

// subtree roots a forest at one node.
type subtree struct {
	*forest.Forest
	root forest.NodeID
}

func (s subtree) Roots() []forest.NodeID { return []forest.NodeID{s.root} }

func renderTree(out io.Writer, f *forest.Forest, src treeSource, maxDepth int) {
	var walk func(id forest.NodeID, prefix string, last bool, depth int)
	walk = func(id forest.NodeID, prefix string, last bool, depth int) {
		connector, indent := "├── ", "│   "
		if last {
			connector, indent = "└── ", "    "
		}
		if depth == 0 {
			connector, indent = "", ""
		}
		fmt.Fprintln(out, edgeStyle.Render(prefix+connector)+templateLine(f, id))

		if maxDepth > 0 && depth+1 >= maxDepth {
			return
		}
		children := src.Children(id)
		for i, child := range children {
			walk(child, prefix+indent, i == len(children)-1, depth+1)
		}
	}
	for _, root := range src.Roots() {
		walk(root, "", true, 0)
	}
}

func templateLine(f *forest.Forest, id forest.NodeID) string {
	rec := f.Record(id)
	name := rec.Name
	if rec.DisplayName != "" {
		name = fmt.Sprintf("%s %q", name, rec.DisplayName)
	}
	parts := []string{
		nameStyle.Render(name),
		keyStyle.Render(rec.MapKey),
		typeStyle.Render("[" + string(rec.Type) + "]"),
	}
	if rec.StatsRef != "" {
		parts = append(parts, statsStyle.Render("stats="+rec.StatsRef))
	}
	return strings.Join(parts, " ")
}
