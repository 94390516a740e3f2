package validate

import (
	"fmt"

	"rootforge/internal/forest"
	"rootforge/internal/ingest"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeFileFailed         = "file_failed"
	codeOrphanedTemplate   = "orphaned_template"
	codeDisplacedTemplate  = "displaced_template"
	codeUnresolvedStatsRef = "unresolved_stats_ref"
	codeUnreachable        = "unreachable_template"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Pak      string
	Entity   string
	FilePath string
}

type Report struct {
	Issues []Issue
}

// Count returns the number of issues with the given severity.
func (r *Report) Count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

func (r *Report) HasErrors() bool { return r.Count(SeverityError) > 0 }

// Run checks a loaded index for cross-reference problems. result may be nil
// when the index was not produced by a fresh load.
func Run(idx *ingest.Index, result *ingest.Result) (*Report, error) {
	if idx == nil || idx.Forest == nil {
		return nil, fmt.Errorf("index is required")
	}

	issues := make([]Issue, 0)
	if result != nil {
		for _, file := range result.Failed() {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     codeFileFailed,
				Message:  file.Err.Error(),
				Pak:      file.Source,
				FilePath: file.Path,
			})
		}
	}

	f := idx.Forest
	for _, rec := range f.Orphans() {
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeOrphanedTemplate,
			Message:  fmt.Sprintf("parent template %s not found", rec.ParentTemplateID),
			Pak:      rec.PakOrigin,
			Entity:   describe(rec.Name, rec.MapKey),
		})
	}

	for _, rec := range f.Displaced() {
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeDisplacedTemplate,
			Message:  "replaced by a later template with the same map key",
			Pak:      rec.PakOrigin,
			Entity:   describe(rec.Name, rec.MapKey),
		})
	}

	for _, id := range f.Unreachable() {
		rec := f.Record(id)
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeUnreachable,
			Message:  "template is part of a parent cycle",
			Pak:      rec.PakOrigin,
			Entity:   describe(rec.Name, rec.MapKey),
		})
	}

	f.Walk(func(id forest.NodeID, _ int) bool {
		rec := f.Record(id)
		if rec.StatsRef == "" {
			return true
		}
		if parent, ok := f.Parent(id); ok && f.Record(parent).StatsRef == rec.StatsRef {
			return true
		}
		if _, ok := idx.Stat(rec.StatsRef); !ok {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeUnresolvedStatsRef,
				Message:  fmt.Sprintf("stats entry %s not found", rec.StatsRef),
				Pak:      rec.PakOrigin,
				Entity:   describe(rec.Name, rec.MapKey),
			})
		}
		return true
	})

	return &Report{Issues: issues}, nil
}

func describe(name, key string) string {
	if name == "" {
		return key
	}
	return fmt.Sprintf("%s (%s)", name, key)
}
