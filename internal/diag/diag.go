// Package diag carries non-fatal decode findings from the parsers to
// whoever is listening. Components never log directly; they report to the
// Sink they were handed.
package diag

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

type Severity string

const (
	SeverityDebug   Severity = "debug"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

func (s Severity) level() slog.Level {
	switch s {
	case SeverityDebug:
		return slog.LevelDebug
	case SeverityError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Sink receives diagnostics. Implementations must be safe for concurrent use;
// per-file workers share one sink.
type Sink interface {
	Report(severity Severity, message string)
}

// Reportf formats and reports a message. A nil sink discards it.
func Reportf(sink Sink, severity Severity, format string, args ...any) {
	if sink == nil {
		return
	}
	sink.Report(severity, fmt.Sprintf(format, args...))
}

type discard struct{}

func (discard) Report(Severity, string) {}

// Discard drops every report.
var Discard Sink = discard{}

// SlogSink forwards reports to a structured logger.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Report(severity Severity, message string) {
	s.logger.Log(context.Background(), severity.level(), message)
}

// Entry is one collected report.
type Entry struct {
	Severity Severity
	Source   string
	Message  string
}

// Collector keeps every report in arrival order.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
	next    Sink
}

// NewCollector returns a collector that also forwards to next when it is
// not nil.
func NewCollector(next Sink) *Collector {
	return &Collector{next: next}
}

func (c *Collector) Report(severity Severity, message string) {
	c.add(Entry{Severity: severity, Message: message})
}

func (c *Collector) add(e Entry) {
	c.mu.Lock()
	c.entries = append(c.entries, e)
	c.mu.Unlock()
	if c.next == nil {
		return
	}
	if e.Source != "" {
		c.next.Report(e.Severity, e.Source+": "+e.Message)
		return
	}
	c.next.Report(e.Severity, e.Message)
}

// Entries returns a copy of everything collected so far.
func (c *Collector) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Entry(nil), c.entries...)
}

// Count returns the number of entries with the given severity.
func (c *Collector) Count(severity Severity) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if e.Severity == severity {
			n++
		}
	}
	return n
}

type sourced struct {
	sink   Sink
	source string
}

// WithSource tags every report with the file or pak it came from.
func WithSource(sink Sink, source string) Sink {
	if sink == nil {
		return Discard
	}
	return sourced{sink: sink, source: source}
}

func (s sourced) Report(severity Severity, message string) {
	if c, ok := s.sink.(*Collector); ok {
		c.add(Entry{Severity: severity, Source: s.source, Message: message})
		return
	}
	s.sink.Report(severity, s.source+": "+message)
}
