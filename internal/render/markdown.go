package render

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"dualpace/internal/analyze"
	"dualpace/internal/domain/content"
)

// MarkdownVersion changes whenever rendered output for the same input may
// change; it feeds page fingerprints.
const MarkdownVersion = "goldmark-gfm-anchor-v1"

type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.Strikethrough,
			extension.Table,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &MarkdownRenderer{md: md}
}

type MarkdownResult struct {
	HTML     []byte
	Headings []content.Heading
}

// Render converts a post body to HTML. Heading ids follow content.AnchorID,
// the same rule the table of contents uses, so TOC links always resolve.
func (r *MarkdownRenderer) Render(src []byte) (MarkdownResult, error) {
	var buf bytes.Buffer

	ctx := parser.NewContext(parser.WithIDs(anchorIDs{}))
	doc := r.md.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return MarkdownResult{}, err
	}
	return MarkdownResult{
		HTML:     buf.Bytes(),
		Headings: analyze.Headings(string(src)),
	}, nil
}

// anchorIDs plugs content.AnchorID into goldmark. Repeated headings get the
// same id, matching the extractor, which does not deduplicate either.
type anchorIDs struct{}

func (anchorIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	return []byte(content.AnchorID(string(value)))
}

func (anchorIDs) Put(value []byte) {}
