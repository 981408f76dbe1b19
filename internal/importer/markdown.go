package importer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		gmhtml.WithUnsafe(),
	),
)

// MarkdownToHTML renders markdown with GitHub flavoured extensions.
func MarkdownToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

// skippedContent carries no page content.
const skippedContent = "script, style, noscript, template, iframe, header, footer, nav"

var htmlConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// HTMLToMarkdown converts the content under sel to markdown. Text that
// looks like markdown syntax is escaped. sel itself is left untouched.
func HTMLToMarkdown(sel *goquery.Selection) (string, error) {
	content := sel.Clone()
	content.Find(skippedContent).Remove()
	inner, err := content.Html()
	if err != nil {
		return "", fmt.Errorf("rendering page content: %w", err)
	}
	out, err := htmlConverter.ConvertString(inner)
	if err != nil {
		return "", fmt.Errorf("converting html to markdown: %w", err)
	}
	return strings.TrimSpace(out) + "\n", nil
}

// MetadataBlock renders m as the trailing metadata table.
func MetadataBlock(m Metadata) string {
	rows := m.Rows()
	if len(rows) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("| Metadata | |\n| --- | --- |\n")
	for _, r := range rows {
		value := escapeCell(r.Value)
		if r.Image {
			value = "![](" + r.Value + ")"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", r.Key, value)
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}
