// Package fs persists scraped documentation to the local filesystem and
// loads it back for indexing.
package fs

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/docai/docai"
)

// maxFileNameLen caps generated file names so deep URLs stay within
// filesystem limits.
const maxFileNameLen = 120

var _ docai.PageStore = (*PageStore)(nil)

// PageStore writes pages as Markdown files with atomic replace semantics.
// Save writes into <dir>.tmp; Commit swaps the temporary directory into
// place, so a failed crawl never leaves a half-written source folder.
type PageStore struct {
	dir   string
	names map[string]int
}

// NewPageStore creates a PageStore writing to dir.
func NewPageStore(dir string) *PageStore {
	return &PageStore{
		dir:   dir,
		names: make(map[string]int),
	}
}

func (s *PageStore) tempDir() string {
	return s.dir + ".tmp"
}

// Save writes the page into the temporary directory and returns the
// relative path chosen for it. Name collisions get a numeric suffix.
func (s *PageStore) Save(_ context.Context, page *docai.Page) (string, error) {
	if page.Content == "" {
		return "", docai.Errorf(docai.EINVALID, "page has no content")
	}

	relPath := s.uniqueName(fileNameForURL(page.URL))

	fullPath := filepath.Join(s.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(fullPath, []byte(FormatPage(page)), 0o644); err != nil {
		return "", err
	}
	return relPath, nil
}

// Commit replaces the source directory with the temporary one.
func (s *PageStore) Commit() error {
	if err := os.MkdirAll(filepath.Dir(s.dir), 0o755); err != nil {
		return err
	}
	if err := os.RemoveAll(s.dir); err != nil {
		return err
	}
	return os.Rename(s.tempDir(), s.dir)
}

// Abort discards everything written since the store was created.
func (s *PageStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}

// uniqueName appends -2, -3, ... before the extension on repeat names.
func (s *PageStore) uniqueName(name string) string {
	s.names[name]++
	if n := s.names[name]; n > 1 {
		ext := filepath.Ext(name)
		name = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), n, ext)
	}
	return name
}

// FormatPage renders a page in the on-disk layout: a heading, the origin
// URL, a separator, then the Markdown body.
func FormatPage(page *docai.Page) string {
	var b strings.Builder
	b.WriteString("# ")
	b.WriteString(page.Title)
	b.WriteString("\n\nSource: ")
	b.WriteString(page.URL)
	b.WriteString("\n\n---\n\n")
	b.WriteString(page.Content)
	b.WriteString("\n")
	return b.String()
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// fileNameForURL derives a flat Markdown file name from the URL's last
// path segment, falling back to "index" for root URLs.
func fileNameForURL(rawURL string) string {
	var segment string
	if u, err := url.Parse(rawURL); err == nil {
		segment = path.Base(strings.TrimRight(u.Path, "/"))
	}
	if segment == "." || segment == "/" {
		segment = ""
	}
	segment = strings.TrimSuffix(segment, ".html")
	segment = unsafeNameChars.ReplaceAllString(segment, "-")
	segment = strings.Trim(segment, "-.")
	if segment == "" {
		segment = "index"
	}
	if len(segment) > maxFileNameLen {
		segment = segment[:maxFileNameLen]
	}
	return segment + ".md"
}
