package parse

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/poiesic/docproc/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF assembles a minimal PDF with one Helvetica text run per page,
// recording byte offsets as objects are written so the xref table is exact.
// Page texts must not contain parentheses.
func buildPDF(pageTexts ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make(map[int]int)
	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	n := len(pageTexts)
	fontNum := 3 + 2*n

	kids := make([]string, n)
	for i := range pageTexts {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))

	for i, pageText := range pageTexts {
		pageNum := 3 + 2*i
		contentNum := pageNum + 1
		writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontNum, contentNum))
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", pageText)
		writeObj(contentNum, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	writeObj(fontNum, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xrefAt := buf.Len()
	size := fontNum + 1
	fmt.Fprintf(&buf, "xref\n0 %d\n", size)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num < size; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, xrefAt)
	return buf.Bytes()
}

func TestParsePlainTextFile(t *testing.T) {
	p := NewTabulaParser()
	doc, err := p.Parse(context.Background(), ParseRequest{
		Data:     []byte("Hello document.\n\nSecond paragraph."),
		Filename: "notes.txt",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, doc.DocumentID)
	assert.Equal(t, "Hello document.\n\nSecond paragraph.", doc.RawText)
	assert.Empty(t, doc.MarkdownText)
	assert.Equal(t, "txt", doc.Metadata.FileType)
	assert.Equal(t, MethodPlainText, doc.Metadata.ExtractionMethod)
	assert.Equal(t, int64(34), doc.Metadata.FileSizeBytes)
}

func TestParseMarkdownFile(t *testing.T) {
	p := NewTabulaParser()
	src := "# Heading\n\nBody text."
	doc, err := p.Parse(context.Background(), ParseRequest{
		Data:     []byte(src),
		Filename: "readme.md",
	})
	require.NoError(t, err)

	assert.Equal(t, src, doc.RawText)
	assert.Equal(t, src, doc.MarkdownText, "markdown files double as their own rendering")
	assert.Equal(t, "md", doc.Metadata.FileType)
}

func TestParseEmptyFile(t *testing.T) {
	p := NewTabulaParser()
	_, err := p.Parse(context.Background(), ParseRequest{Filename: "empty.pdf"})
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestParsePDFDocument(t *testing.T) {
	p := NewTabulaParser()
	doc, err := p.Parse(context.Background(), ParseRequest{
		Data:     buildPDF("First page body.", "Second page body."),
		Filename: "report.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "pdf", doc.Metadata.FileType)
	assert.Equal(t, 2, doc.Metadata.PageCount)
	assert.Contains(t, []string{MethodLayout, MethodTextOnly}, doc.Metadata.ExtractionMethod)
	assert.Contains(t, doc.RawText, "First page body.")
	assert.Contains(t, doc.RawText, "Second page body.")
}

func TestParsePDFTextOnly(t *testing.T) {
	p := NewTabulaParser()
	doc, err := p.Parse(context.Background(), ParseRequest{
		Data:     buildPDF("Only pass body."),
		Filename: "flat.pdf",
		TextOnly: true,
	})
	require.NoError(t, err)

	assert.Equal(t, MethodTextOnly, doc.Metadata.ExtractionMethod)
	assert.Empty(t, doc.MarkdownText)
	assert.Empty(t, doc.Tables)
	assert.Contains(t, doc.RawText, "Only pass body.")
}

func TestParsePDFRepeatedParses(t *testing.T) {
	// Every parse runs several extraction passes over the staged file;
	// back-to-back parses of the same bytes must each succeed.
	p := NewTabulaParser()
	ctx := context.Background()
	req := ParseRequest{Data: buildPDF("Repeatable body."), Filename: "again.pdf"}

	for i := 0; i < 3; i++ {
		doc, err := p.Parse(ctx, req)
		require.NoError(t, err)
		assert.Contains(t, doc.RawText, "Repeatable body.")
	}
}

func TestParsePDFMaxPagesBeyondTotal(t *testing.T) {
	// A limit past the last page behaves like no limit.
	p := NewTabulaParser()
	doc, err := p.Parse(context.Background(), ParseRequest{
		Data:     buildPDF("One.", "Two."),
		Filename: "short.pdf",
		MaxPages: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Metadata.PageCount)
	assert.Contains(t, doc.RawText, "Two.")
}

func TestParsePDFMaxPagesConcurrentIsolation(t *testing.T) {
	// MaxPages is a per-call parameter: two parses of the same bytes
	// running at once must honor their own limits.
	p := NewTabulaParser()
	data := buildPDF("Alpha page body.", "Beta page body.", "Gamma page body.")

	type result struct {
		doc *core.ParsedDocument
		err error
	}
	run := func(maxPages int, out chan<- result) {
		doc, err := p.Parse(context.Background(), ParseRequest{
			Data:     data,
			Filename: "multi.pdf",
			MaxPages: maxPages,
		})
		out <- result{doc, err}
	}

	limited := make(chan result, 1)
	full := make(chan result, 1)
	go run(1, limited)
	go run(0, full)

	lim := <-limited
	all := <-full
	require.NoError(t, lim.err)
	require.NoError(t, all.err)

	assert.Equal(t, 1, lim.doc.Metadata.PageCount)
	assert.Contains(t, lim.doc.RawText, "Alpha page body.")
	assert.NotContains(t, lim.doc.RawText, "Gamma page body.")

	assert.Equal(t, 3, all.doc.Metadata.PageCount)
	assert.Contains(t, all.doc.RawText, "Gamma page body.")
}

func TestParseFreshDocumentIDs(t *testing.T) {
	p := NewTabulaParser()
	ctx := context.Background()
	req := ParseRequest{Data: []byte("same content"), Filename: "a.txt"}

	first, err := p.Parse(ctx, req)
	require.NoError(t, err)
	second, err := p.Parse(ctx, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.DocumentID, second.DocumentID)
}
