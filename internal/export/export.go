// Package export renders upgraded documents to HTML or Markdown and writes
// the result to a directory or an S3 bucket.
package export

import (
	"context"
	"log/slog"
	"path"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/dom"
)

// Format is an output format.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts "html", "markdown" and "md".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html", "":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", errors.New("E160").
		WithDetailf("unknown format %q", s).
		WithSuggestion(`Use "html" or "markdown"`)
}

// Ext returns the file extension for f, with the dot.
func (f Format) Ext() string {
	if f == FormatMarkdown {
		return ".md"
	}
	return ".html"
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == FormatMarkdown {
		return "text/markdown; charset=utf-8"
	}
	return "text/html; charset=utf-8"
}

// Target receives exported files.
type Target interface {
	// Put stores data under name and returns where it ended up.
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// Exporter renders documents.
type Exporter struct {
	md     *converter.Converter
	logger *slog.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(x *Exporter) {
		if logger != nil {
			x.logger = logger
		}
	}
}

// New creates an Exporter.
func New(opts ...Option) *Exporter {
	x := &Exporter{
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Render returns doc in the given format. Markdown covers the body only.
func (x *Exporter) Render(doc *dom.Document, f Format) ([]byte, error) {
	switch f {
	case FormatHTML:
		return []byte(doc.String()), nil
	case FormatMarkdown:
		body := doc.Body()
		if body == nil {
			return nil, errors.New("E160").WithDetail("document has no body")
		}
		md, err := x.md.ConvertString(dom.InnerHTML(body))
		if err != nil {
			return nil, errors.New("E160").WithDetail("markdown conversion").Wrap(err)
		}
		return []byte(strings.TrimSpace(md) + "\n"), nil
	}
	return nil, errors.New("E160").WithDetailf("unknown format %q", f)
}

// Export renders doc and stores it in t as name plus the format's
// extension. It returns the location reported by t.
func (x *Exporter) Export(ctx context.Context, doc *dom.Document, f Format, name string, t Target) (string, error) {
	data, err := x.Render(doc, f)
	if err != nil {
		return "", err
	}
	if path.Ext(name) == "" {
		name += f.Ext()
	}
	loc, err := t.Put(ctx, name, f.ContentType(), data)
	if err != nil {
		return "", errors.FromError(err, "E160")
	}
	x.logger.Info("export: document written", "format", string(f), "location", loc, "bytes", len(data))
	return loc, nil
}
