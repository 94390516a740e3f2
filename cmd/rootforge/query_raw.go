package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// rawRunner executes one ad-hoc query against an export backend.
type rawRunner func(ctx context.Context, p *project, query string, params map[string]any) ([]map[string]any, error)

func rawQueryCmd(use, short, paramUsage string, run rawRunner) *cobra.Command {
	var (
		paramPairs []string
		format     string
	)
	cmd := &cobra.Command{
		Use:   use + " <query>",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(paramPairs)
			if err != nil {
				return err
			}
			p, err := openProject()
			if err != nil {
				return err
			}
			rows, err := run(cmd.Context(), p, strings.Join(args, " "), params)
			if err != nil {
				return err
			}
			return printRows(cmd.OutOrStdout(), rows, format)
		},
	}
	cmd.Flags().StringArrayVar(&paramPairs, "param", nil, paramUsage)
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or table")
	return cmd
}

func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid param %q: expected key=value", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid param %q: empty key", pair)
		}
		params[key] = strings.TrimSpace(value)
	}
	return params, nil
}

func printRows(out io.Writer, rows []map[string]any, format string) error {
	switch format {
	case "json":
		payload, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
		_, err = fmt.Fprintln(out, string(payload))
		return err
	case "table":
		if len(rows) == 0 {
			_, err := fmt.Fprintln(out, "(no rows)")
			return err
		}
		columns := rowColumns(rows)
		t := table.New().Headers(columns...)
		for _, row := range rows {
			cells := make([]string, len(columns))
			for i, col := range columns {
				cells[i] = cellText(row[col])
			}
			t.Row(cells...)
		}
		_, err := fmt.Fprintln(out, t.Render())
		return err
	default:
		return fmt.Errorf("unknown format %q: expected json or table", format)
	}
}

// rowColumns returns the union of keys across rows, sorted.
func rowColumns(rows []map[string]any) []string {
	var columns []string
	for _, row := range rows {
		for key := range row {
			if !slices.Contains(columns, key) {
				columns = append(columns, key)
			}
		}
	}
	slices.Sort(columns)
	return columns
}

func cellText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}
