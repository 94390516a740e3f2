package ingest

import (
	"io/fs"
	"path"
	"strings"

	"rootforge/internal/config"
)

//go:generate mockgen -destination=mock/mock_reader.go -package=ingestmock rootforge/internal/ingest FileReader

// FileReader returns the full contents of a source file.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

type fsReader struct {
	fsys fs.FS
}

func (r fsReader) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(r.fsys, name)
}

type FileKind string

const (
	KindLocalization FileKind = "localization"
	KindStats        FileKind = "stats"
	KindTemplates    FileKind = "templates"
)

type sourceFile struct {
	path   string
	source string
	kind   FileKind
}

var extensions = map[FileKind][]string{
	KindLocalization: {".xml"},
	KindStats:        {".txt"},
	KindTemplates:    {".lsx", ".xml"},
}

// listFiles expands every configured path in source order: localization,
// then stats, then templates for each source.
func listFiles(fsys fs.FS, cfg *config.ProjectConfig) ([]sourceFile, error) {
	excluded := make([]string, 0, len(cfg.Exclude))
	for _, p := range cfg.Exclude {
		if p == "" {
			continue
		}
		excluded = append(excluded, cleanPath(p))
	}

	var files []sourceFile
	seen := make(map[string]struct{})
	for _, source := range cfg.Sources {
		groups := []struct {
			kind  FileKind
			roots []string
		}{
			{KindLocalization, source.Localization},
			{KindStats, source.Stats},
			{KindTemplates, source.Templates},
		}
		for _, group := range groups {
			for _, root := range group.roots {
				if root == "" {
					continue
				}
				err := fs.WalkDir(fsys, cleanPath(root), func(p string, d fs.DirEntry, err error) error {
					if err != nil {
						return err
					}
					if isExcluded(p, excluded) {
						if d.IsDir() {
							return fs.SkipDir
						}
						return nil
					}
					if d.IsDir() || !hasExtension(d.Name(), extensions[group.kind]) {
						return nil
					}
					if _, dup := seen[p]; dup {
						return nil
					}
					seen[p] = struct{}{}
					files = append(files, sourceFile{path: p, source: source.Name, kind: group.kind})
					return nil
				})
				if err != nil {
					return nil, err
				}
			}
		}
	}
	return files, nil
}

func cleanPath(p string) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "./")
	if p == "" || p == "/" {
		return "."
	}
	return strings.TrimPrefix(p, "/")
}

func isExcluded(p string, excludes []string) bool {
	for _, exclude := range excludes {
		if exclude == p || strings.HasPrefix(p, exclude+"/") {
			return true
		}
	}
	return false
}

func hasExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
