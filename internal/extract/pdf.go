// Package extract turns uploaded documents into plain text for prompting.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cloudwego/eino-ext/components/document/loader/file"
	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/document/parser"
	"github.com/cloudwego/eino/schema"
	"github.com/ledongthuc/pdf"
)

const MetaPage = "page"

// PDFParser is an eino parser that extracts plain text page by page.
// Image-only pages produce no document.
type PDFParser struct{}

func (PDFParser) Parse(ctx context.Context, reader io.Reader, opts ...parser.Option) (docs []*schema.Document, err error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			docs = nil
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	rdr, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	common := parser.GetCommonOptions(&parser.Options{}, opts...)
	n := rdr.NumPage()
	docs = make([]*schema.Document, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := rdr.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		meta := map[string]any{MetaPage: i}
		for k, v := range common.ExtraMeta {
			meta[k] = v
		}
		docs = append(docs, &schema.Document{
			ID:       pageID(common.URI, i),
			Content:  text,
			MetaData: meta,
		})
	}
	return docs, nil
}

func pageID(uri string, page int) string {
	if uri == "" {
		return "page-" + strconv.Itoa(page)
	}
	return uri + "#page=" + strconv.Itoa(page)
}

// NewParser routes .pdf sources to PDFParser and everything else to plain text.
func NewParser(ctx context.Context) (parser.Parser, error) {
	return parser.NewExtParser(ctx, &parser.ExtParserConfig{
		Parsers: map[string]parser.Parser{
			".pdf": PDFParser{},
		},
		FallbackParser: parser.TextParser{},
	})
}

// NewLoader returns an eino file loader that reads local files through p.
func NewLoader(ctx context.Context, p parser.Parser) (document.Loader, error) {
	return file.NewFileLoader(ctx, &file.FileLoaderConfig{
		UseNameAsID: true,
		Parser:      p,
	})
}

// Text parses data as the document named by uri and joins the page texts.
func Text(ctx context.Context, p parser.Parser, uri string, data []byte) (string, error) {
	docs, err := p.Parse(ctx, bytes.NewReader(data), parser.WithURI(uri))
	if err != nil {
		return "", err
	}
	return Join(docs), nil
}

// Join concatenates document contents separated by blank lines.
func Join(docs []*schema.Document) string {
	var b strings.Builder
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		content := strings.TrimSpace(doc.Content)
		if content == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(content)
	}
	return b.String()
}
