package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"rootforge/internal/validate"
)

func TestReportIssuesGroupsBySeverity(t *testing.T) {
	report := &validate.Report{Issues: []validate.Issue{
		{Severity: validate.SeverityWarn, Code: "orphaned_template", Message: "parent missing", Pak: "Shared", Entity: "abc"},
		{Severity: validate.SeverityError, Code: "file_failed", Message: "bad xml", FilePath: "Shared/RootTemplates/x.lsx"},
	}}

	var out bytes.Buffer
	err := reportIssues(&out, report, false)
	assert.EqualError(t, err, "validation found 1 errors")

	text := out.String()
	assert.Contains(t, text, "Errors (1):")
	assert.Contains(t, text, "Warnings (1):")
	assert.Contains(t, text, "abc [Shared]: parent missing (orphaned_template)")
	assert.Contains(t, text, "(Shared/RootTemplates/x.lsx): bad xml (file_failed)")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("Errors")), bytes.Index(out.Bytes(), []byte("Warnings")))
}

func TestReportIssuesStrict(t *testing.T) {
	report := &validate.Report{Issues: []validate.Issue{
		{Severity: validate.SeverityWarn, Code: "unreachable_template", Entity: "k"},
	}}

	assert.NoError(t, reportIssues(&bytes.Buffer{}, report, false))
	assert.EqualError(t, reportIssues(&bytes.Buffer{}, report, true), "validation found 1 warnings")
}

func TestReportIssuesClean(t *testing.T) {
	var out bytes.Buffer
	assert.NoError(t, reportIssues(&out, &validate.Report{}, true))
	assert.Equal(t, "No issues found.\n", out.String())
}
