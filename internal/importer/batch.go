package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ziadkadry99/sitenav/internal/logging"
	"github.com/ziadkadry99/sitenav/internal/progress"
	"github.com/ziadkadry99/sitenav/internal/walker"
)

// Batch imports many pages into OutDir, one markdown file per page.
type Batch struct {
	Converter *Converter
	Params    Params
	Include   []string
	Exclude   []string
	OutDir    string
	Reporter  progress.Reporter
	Log       *Store
	// Force reimports pages whose content is unchanged.
	Force bool
}

// ErrOutsideOutDir is returned for a page whose output file would land
// outside the batch output directory.
var ErrOutsideOutDir = errors.New("output path escapes the output directory")

// pageSource is one page queued for import. hash is empty when the page
// content is not known before conversion.
type pageSource struct {
	path    string
	hash    string
	convert func() (*Result, error)
}

// Run converts the published paths through the converter. Pages that
// fail are recorded and the batch continues; cancelling ctx stops it.
func (b *Batch) Run(ctx context.Context, paths []string) (*Summary, error) {
	if b.Converter == nil {
		return nil, fmt.Errorf("batch import: no converter configured")
	}
	return b.run(ctx, len(paths), func(i int) pageSource {
		p := paths[i]
		return pageSource{path: p, convert: func() (*Result, error) { return b.Converter.Convert(ctx, p, b.Params) }}
	})
}

// RunExport converts pages of a local export. Unless Force is set, a page
// whose content hash matches its last completed import is skipped.
func (b *Batch) RunExport(ctx context.Context, pages []walker.Page) (*Summary, error) {
	return b.run(ctx, len(pages), func(i int) pageSource {
		page := pages[i]
		return pageSource{path: page.SitePath, hash: page.ContentHash, convert: func() (*Result, error) { return convertFile(page) }}
	})
}

func convertFile(page walker.Page) (*Result, error) {
	raw, err := os.ReadFile(page.File)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", page.RelPath, err)
	}
	var res *Result
	if strings.HasSuffix(strings.ToLower(page.File), ".md") {
		res, err = FromMarkdown(string(raw), Metadata{})
	} else {
		res, err = ConvertHTML(string(raw))
	}
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", page.RelPath, err)
	}
	res.Path = MapInbound(page.SitePath)
	return res, nil
}

func (b *Batch) run(ctx context.Context, total int, next func(int) pageSource) (*Summary, error) {
	reporter := b.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}
	lgr := logging.FromContext(ctx)

	sum := &Summary{Found: total}
	reporter.Start(total)
	defer reporter.Finish()

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		page := next(i)
		reporter.Update(i+1, page.path)

		entry := LogEntry{SourcePath: page.path, ContentPath: MapInbound(page.path), ContentHash: page.hash}
		unchanged, err := b.unchanged(ctx, page)
		if err != nil {
			return sum, err
		}
		switch {
		case !walker.MatchesInclude(page.path, b.Include) || walker.MatchesExclude(page.path, b.Exclude):
			entry.Status = StatusSkipped
			sum.Skipped++
		case unchanged:
			lgr.V(1).Info("page unchanged since last import", "path", page.path)
			entry.Status = StatusSkipped
			sum.Skipped++
		default:
			out, err := b.importOne(page)
			if err != nil {
				lgr.Info("page import failed", "path", page.path, "error", err.Error())
				entry.Status = StatusFailed
				entry.Error = err.Error()
				sum.Failed++
				sum.Errors = append(sum.Errors, fmt.Sprintf("%s: %v", page.path, err))
				break
			}
			entry.Status = StatusCompleted
			entry.OutputFile = out
			sum.Imported++
		}

		if b.Log != nil {
			recorded, err := b.Log.Record(ctx, entry)
			if err != nil {
				return sum, err
			}
			entry = *recorded
		}
		sum.Entries = append(sum.Entries, entry)
	}
	return sum, nil
}

// unchanged reports whether page was already imported with the same
// content.
func (b *Batch) unchanged(ctx context.Context, page pageSource) (bool, error) {
	if b.Force || b.Log == nil || page.hash == "" {
		return false, nil
	}
	last, err := b.Log.LastCompleted(ctx, page.path)
	if err != nil {
		return false, err
	}
	return last != nil && last.ContentHash == page.hash, nil
}

func (b *Batch) importOne(page pageSource) (string, error) {
	out, err := b.outputFile(page.path)
	if err != nil {
		return "", err
	}
	res, err := page.convert()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(out, []byte(res.Markdown), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", out, err)
	}
	return out, nil
}

// outputFile is where the markdown for source is written. It must stay
// under OutDir.
func (b *Batch) outputFile(source string) (string, error) {
	rel := filepath.FromSlash(OutputName(source))
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %s", ErrOutsideOutDir, source)
	}
	return filepath.Join(b.OutDir, rel), nil
}

// OutputName is the slash-separated markdown file name for a published
// path, e.g. /us/en/products.html -> us/en/products.md.
func OutputName(path string) string {
	p := strings.TrimPrefix(strings.TrimSpace(path), "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index"
	}
	for _, suffix := range inboundSuffixes {
		if strings.HasSuffix(p, suffix) {
			p = strings.TrimSuffix(p, suffix)
			break
		}
	}
	return p + ".md"
}
