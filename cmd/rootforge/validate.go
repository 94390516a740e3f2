package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"rootforge/internal/validate"
)

var (
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
)

func validateCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run cross-reference checks over the loaded data",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject()
			if err != nil {
				return err
			}
			idx, result, err := p.load(cmd.Context(), true)
			if err != nil {
				return err
			}
			report, err := validate.Run(idx, result)
			if err != nil {
				return err
			}
			return reportIssues(cmd.OutOrStdout(), report, strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on warnings as well as errors")
	return cmd
}

// reportIssues prints the report grouped by severity and returns an error
// when the run should fail.
func reportIssues(out io.Writer, report *validate.Report, strict bool) error {
	if len(report.Issues) == 0 {
		fmt.Fprintln(out, "No issues found.")
		return nil
	}

	sections := []struct {
		severity validate.Severity
		title    string
		style    lipgloss.Style
	}{
		{validate.SeverityError, "Errors", errorStyle},
		{validate.SeverityWarn, "Warnings", warnStyle},
	}
	printed := false
	for _, s := range sections {
		n := report.Count(s.severity)
		if n == 0 {
			continue
		}
		if printed {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, s.style.Render(fmt.Sprintf("%s (%d):", s.title, n)))
		for _, issue := range report.Issues {
			if issue.Severity == s.severity {
				fmt.Fprintf(out, "  - %s: %s (%s)\n", issueLocation(issue), issue.Message, issue.Code)
			}
		}
		printed = true
	}

	switch {
	case report.HasErrors():
		return fmt.Errorf("validation found %d errors", report.Count(validate.SeverityError))
	case strict && report.Count(validate.SeverityWarn) > 0:
		return fmt.Errorf("validation found %d warnings", report.Count(validate.SeverityWarn))
	}
	return nil
}

func issueLocation(issue validate.Issue) string {
	location := issue.Entity
	if issue.Pak != "" {
		location = fmt.Sprintf("%s [%s]", location, issue.Pak)
	}
	if issue.FilePath != "" {
		location = fmt.Sprintf("%s (%s)", location, issue.FilePath)
	}
	return location
}
