// Package walker lists the pages of a local content export so they can
// be queued for import.
package walker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMaxFileSize is the largest page file considered (4 MB).
const DefaultMaxFileSize int64 = 4 << 20

// Page is one page file discovered in an export.
type Page struct {
	File        string // Absolute path on disk.
	RelPath     string // Path relative to the export root, slash separated.
	SitePath    string // Site path the page is published at, e.g. /us/en/products.html.
	Size        int64
	ContentHash string // SHA-256 hex digest of the file content.
}

// Config controls Walk.
type Config struct {
	RootDir     string
	Include     []string // Glob patterns; only matching pages are returned.
	Exclude     []string // Glob patterns; matching pages are skipped.
	MaxFileSize int64    // 0 uses DefaultMaxFileSize.
}

var pageExtensions = []string{".plain.html", ".html", ".htm", ".md"}

// Walk traverses the export rooted at cfg.RootDir and returns its pages
// sorted by site path. Unreadable entries are skipped.
func Walk(cfg Config) ([]Page, error) {
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: resolve root: %w", err)
	}
	maxSize := cfg.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	var pages []Page
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && shouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || pageExtension(d.Name()) == "" {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)
		sitePath := SitePath(relPath)
		if !MatchesInclude(sitePath, cfg.Include) || MatchesExclude(sitePath, cfg.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxSize {
			return nil
		}
		hash, err := hashFile(path)
		if err != nil {
			return nil
		}

		pages = append(pages, Page{
			File:        path,
			RelPath:     relPath,
			SitePath:    sitePath,
			Size:        info.Size(),
			ContentHash: hash,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walker: traversal: %w", err)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].SitePath < pages[j].SitePath })
	return pages, nil
}

// SitePath maps an export-relative file path to the site path it is
// served at: us/en/products.plain.html and us/en/products.md both map to
// /us/en/products.html.
func SitePath(relPath string) string {
	p := "/" + strings.TrimPrefix(filepath.ToSlash(relPath), "/")
	if ext := pageExtension(p); ext != "" {
		p = strings.TrimSuffix(p, ext) + ".html"
	}
	return p
}

func pageExtension(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range pageExtensions {
		if strings.HasSuffix(lower, ext) {
			return name[len(name)-len(ext):]
		}
	}
	return ""
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
