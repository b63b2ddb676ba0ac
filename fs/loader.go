package fs

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docai/docai"
)

// loadableExtensions are the file types picked up when indexing a source
// folder. Markdown dominates, but hand-dropped notes and exports count too.
var loadableExtensions = map[string]bool{
	".md":   true,
	".txt":  true,
	".html": true,
	".log":  true,
}

var _ docai.DocumentLoader = (*DocumentLoader)(nil)

// DocumentLoader reads documentation files from a source folder.
type DocumentLoader struct{}

// NewDocumentLoader creates a DocumentLoader.
func NewDocumentLoader() *DocumentLoader {
	return &DocumentLoader{}
}

// LoadDir walks dir and returns one Document per loadable file, ordered
// by relative path. The title comes from the first Markdown heading and
// the origin URL from the "Source:" line the page store writes; both stay
// empty for files that lack them.
func (l *DocumentLoader) LoadDir(ctx context.Context, dir string) ([]*docai.Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, docai.Errorf(docai.ENOTFOUND, "documentation folder %q does not exist", dir)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, docai.Errorf(docai.EINVALID, "%q is not a directory", dir)
	}

	var docs []*docai.Document
	err = filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !loadableExtensions[strings.ToLower(filepath.Ext(p))] {
			return nil
		}

		raw, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		content := string(raw)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}

		doc := &docai.Document{
			FilePath:  rel,
			Title:     parseTitle(content),
			SourceURL: parseSourceURL(content),
			Content:   content,
		}
		if fi, err := d.Info(); err == nil {
			doc.FetchedAt = fi.ModTime()
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].FilePath < docs[j].FilePath })
	for i, doc := range docs {
		doc.Position = i
	}
	return docs, nil
}

// parseTitle returns the text of the first "# " heading.
func parseTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

// parseSourceURL returns the URL from the first "Source: <url>" line.
func parseSourceURL(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Source: ") {
			return strings.TrimSpace(line[len("Source: "):])
		}
	}
	return ""
}
