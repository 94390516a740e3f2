// Package ingest loads every configured source into one Index: stat files
// and localization files are decoded in parallel, then template files, then
// everything is merged and assembled on one goroutine.
package ingest

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"rootforge/internal/config"
	"rootforge/internal/diag"
	"rootforge/internal/forest"
	"rootforge/internal/loca"
	"rootforge/internal/snapshot"
	"rootforge/internal/stats"
	"rootforge/internal/templates"
)

type Options struct {
	// FS lists source files. Defaults to the working directory.
	FS fs.FS
	// Reader reads listed files. Defaults to reading from FS.
	Reader FileReader
	Sink   diag.Sink
	// Workers bounds concurrent file decodes. Zero uses cfg.Workers, then
	// GOMAXPROCS.
	Workers int
	// Snapshot is restored instead of decoding when its digests match the
	// current files.
	Snapshot *snapshot.Snapshot
}

// FileResult is the outcome of one source file. Err is set when the file
// contributed nothing to the index.
type FileResult struct {
	Path    string
	Source  string
	Kind    FileKind
	Digest  string
	Records int
	Err     error
}

type Result struct {
	Files        []FileResult
	FromSnapshot bool
}

// Failed returns the files that did not load.
func (r *Result) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Err joins the errors of every failed file.
func (r *Result) Err() error {
	var errs []error
	for _, f := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", f.Path, f.Err))
	}
	return errors.Join(errs...)
}

type statFile struct {
	raw   []stats.RawRecord
	typed []*stats.Structure
}

// Load decodes every source file of cfg. A file that fails to decode is
// recorded in the Result and skipped; the returned error is reserved for
// listing failures and cancellation.
func Load(ctx context.Context, cfg *config.ProjectConfig, opts Options) (*Index, *Result, error) {
	opts = withDefaults(cfg, opts)

	files, err := listFiles(opts.FS, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("listing sources: %w", err)
	}

	result := &Result{Files: make([]FileResult, len(files))}
	for i, f := range files {
		result.Files[i] = FileResult{Path: f.path, Source: f.source, Kind: f.kind}
	}

	contents := make([][]byte, len(files))
	err = forEach(ctx, opts.Workers, len(files), func(i int) {
		data, err := opts.Reader.ReadFile(files[i].path)
		if err != nil {
			result.Files[i].Err = fmt.Errorf("reading file: %w", err)
			return
		}
		contents[i] = data
		result.Files[i].Digest = digest(data)
	})
	if err != nil {
		return nil, nil, err
	}

	policy := orphanPolicy(cfg)
	if digests, ok := currentDigests(result); ok && opts.Snapshot.Matches(digests) {
		idx := restore(opts.Snapshot, digests, policy, opts.Sink)
		result.FromSnapshot = true
		return idx, result, nil
	}

	tables := make([]*loca.Table, len(files))
	decoded := make([]statFile, len(files))
	err = forEach(ctx, opts.Workers, len(files), func(i int) {
		if result.Files[i].Err != nil {
			return
		}
		sink := diag.WithSource(opts.Sink, files[i].path)
		switch files[i].kind {
		case KindLocalization:
			table, err := loca.Load(bytes.NewReader(contents[i]))
			if err != nil {
				result.Files[i].Err = err
				return
			}
			tables[i] = table
			result.Files[i].Records = table.Len()
		case KindStats:
			out, err := decodeStats(contents[i], sink)
			if err != nil {
				result.Files[i].Err = err
				return
			}
			decoded[i] = out
			result.Files[i].Records = len(out.typed)
		}
	})
	if err != nil {
		return nil, nil, err
	}

	table := loca.Merge(tables...)

	records := make([][]templates.Record, len(files))
	err = forEach(ctx, opts.Workers, len(files), func(i int) {
		if files[i].kind != KindTemplates || result.Files[i].Err != nil {
			return
		}
		sink := diag.WithSource(opts.Sink, files[i].path)
		recs, err := templates.Read(bytes.NewReader(contents[i]), files[i].source, table, sink)
		if err != nil {
			result.Files[i].Err = err
			return
		}
		records[i] = recs
		result.Files[i].Records = len(recs)
	})
	if err != nil {
		return nil, nil, err
	}

	idx := newIndex(table, opts.Sink)
	for i := range files {
		if result.Files[i].Err != nil {
			continue
		}
		for j, rec := range decoded[i].raw {
			idx.addStat(rec, decoded[i].typed[j], files[i].path)
		}
		idx.templates = append(idx.templates, records[i]...)
	}
	idx.digests, _ = currentDigests(result)
	idx.Forest = forest.Assemble(idx.templates, forest.Options{Orphans: policy}, opts.Sink)
	return idx, result, nil
}

func withDefaults(cfg *config.ProjectConfig, opts Options) Options {
	if opts.FS == nil {
		opts.FS = os.DirFS(".")
	}
	if opts.Reader == nil {
		opts.Reader = fsReader{fsys: opts.FS}
	}
	if opts.Sink == nil {
		opts.Sink = diag.Discard
	}
	if opts.Workers <= 0 {
		opts.Workers = cfg.Workers
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return opts
}

func orphanPolicy(cfg *config.ProjectConfig) forest.OrphanPolicy {
	if cfg.Assembly.Orphans == config.OrphansPromote {
		return forest.PromoteOrphans
	}
	return forest.DropOrphans
}

// forEach runs fn for 0..n-1 on at most workers goroutines. Cancellation
// is honoured between files; a file already started always completes.
func forEach(ctx context.Context, workers, n int, fn func(i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func decodeStats(data []byte, sink diag.Sink) (statFile, error) {
	parsed, err := stats.Parse(data, sink)
	if err != nil {
		return statFile{}, err
	}
	resolved, err := stats.NewResolver(sink).ResolveAll(parsed)
	if err != nil {
		return statFile{}, err
	}
	out := statFile{raw: resolved, typed: make([]*stats.Structure, 0, len(resolved))}
	for _, rec := range resolved {
		s, err := stats.Coerce(rec, sink)
		if err != nil {
			return statFile{}, err
		}
		out.typed = append(out.typed, s)
	}
	return out, nil
}

func digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// currentDigests maps path to digest. ok is false when any file could not
// be read, since such a load can never match a snapshot.
func currentDigests(result *Result) (map[string]string, bool) {
	digests := make(map[string]string, len(result.Files))
	ok := true
	for _, f := range result.Files {
		if f.Digest == "" {
			ok = false
			continue
		}
		digests[f.Path] = f.Digest
	}
	return digests, ok
}

func restore(snap *snapshot.Snapshot, digests map[string]string, policy forest.OrphanPolicy, sink diag.Sink) *Index {
	idx := newIndex(snap.Table(), sink)
	for _, rec := range snap.Records() {
		s, err := stats.Coerce(rec, sink)
		if err != nil {
			diag.Reportf(sink, diag.SeverityError, "snapshot: %v", err)
			continue
		}
		idx.addStat(rec, s, "snapshot")
	}
	idx.templates = append(idx.templates, snap.Templates...)
	idx.digests = digests
	idx.Forest = forest.Assemble(idx.templates, forest.Options{Orphans: policy}, sink)
	return idx
}
