// Package importer converts authored pages into markdown documents with a
// trailing metadata block, and renders markdown back to HTML.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Converter fetches authored pages and converts them.
type Converter struct {
	fetcher *Fetcher
}

// NewConverter creates a converter reading from f.
func NewConverter(f *Fetcher) *Converter {
	return &Converter{fetcher: f}
}

// Host returns the authoring host pages are read from.
func (c *Converter) Host() string {
	return c.fetcher.Host()
}

// Convert fetches the page published at path and converts it.
func (c *Converter) Convert(ctx context.Context, path string, params Params) (*Result, error) {
	contentPath := MapInbound(path)
	raw, err := c.fetcher.Fetch(ctx, contentPath, params)
	if err != nil {
		return nil, err
	}
	res, err := ConvertHTML(raw)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", contentPath, err)
	}
	res.Path = contentPath
	return res, nil
}

// ConvertHTML converts a rendered page: its body becomes markdown
// followed by the metadata block, and that markdown is rendered to HTML.
func ConvertHTML(raw string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	meta := ExtractMetadata(doc)

	var markdown string
	if body := doc.Find("body"); body.Length() > 0 {
		if markdown, err = HTMLToMarkdown(body.First()); err != nil {
			return nil, err
		}
	}
	if block := MetadataBlock(meta); block != "" {
		markdown = strings.TrimRight(markdown, "\n") + "\n\n" + block
	}
	return FromMarkdown(markdown, meta)
}

// FromMarkdown wraps an already converted document.
func FromMarkdown(markdown string, meta Metadata) (*Result, error) {
	rendered, err := MarkdownToHTML(markdown)
	if err != nil {
		return nil, err
	}
	return &Result{Markdown: markdown, HTML: rendered, Metadata: meta}, nil
}
