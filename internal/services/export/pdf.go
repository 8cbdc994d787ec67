package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// renderPDF converts transcript markdown to PDF via a goldmark AST walk.
// Transcripts only use a narrow markdown subset (headings, paragraphs,
// emphasis, thematic breaks), so the renderer handles just that.
func renderPDF(markdown string) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 9)

	md := goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))
	source := []byte(markdown)
	doc := md.Parser().Parse(text.NewReader(source))

	renderer := &pdfRenderer{
		pdf:    pdf,
		source: source,
		font:   "Arial",
		size:   9,
	}

	if err := ast.Walk(doc, renderer.walk); err != nil {
		return nil, fmt.Errorf("failed to render transcript PDF: %w", err)
	}
	renderer.flush()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF output: %w", err)
	}

	return buf.Bytes(), nil
}

type pdfRenderer struct {
	pdf    *fpdf.Fpdf
	source []byte
	font   string
	size   float64
	bold   bool
	line   string
}

func (r *pdfRenderer) updateFont(size float64) {
	style := ""
	if r.bold {
		style = "B"
	}
	r.pdf.SetFont(r.font, style, size)
}

// flush writes any buffered inline text as a wrapped cell
func (r *pdfRenderer) flush() {
	if r.line == "" {
		return
	}
	r.pdf.MultiCell(0, 5, r.line, "", "L", false)
	r.line = ""
}

func (r *pdfRenderer) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			r.flush()
			r.pdf.Ln(2)
			r.bold = true
			size := r.size + float64(8-node.Level)
			r.updateFont(size)
		} else {
			r.flush()
			r.bold = false
			r.updateFont(r.size)
			r.pdf.Ln(2)
		}

	case *ast.Paragraph:
		if !entering {
			r.flush()
			r.pdf.Ln(2)
		}

	case *ast.Text:
		if entering {
			r.line += string(node.Segment.Value(r.source))
			if node.HardLineBreak() || node.SoftLineBreak() {
				r.flush()
			}
		}

	case *ast.Emphasis:
		// Inline style switches force a flush of the buffered run
		if entering {
			r.flush()
			if node.Level >= 2 {
				r.bold = true
				r.updateFont(r.size)
			}
		} else {
			r.flush()
			if node.Level >= 2 {
				r.bold = false
				r.updateFont(r.size)
			}
		}

	case *ast.ThematicBreak:
		if entering {
			r.flush()
			r.pdf.Ln(2)
			_, y := r.pdf.GetXY()
			pageWidth, _ := r.pdf.GetPageSize()
			left, _, right, _ := r.pdf.GetMargins()
			r.pdf.Line(left, y, pageWidth-right, y)
			r.pdf.Ln(3)
		}
	}

	return ast.WalkContinue, nil
}
