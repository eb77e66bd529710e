package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/custodia-labs/resume-assistant/internal/core/domain"
	"github.com/custodia-labs/resume-assistant/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const documentPart = "word/document.xml"

var errMissingDocumentPart = errors.New("missing " + documentPart)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedExtensions returns the extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".docx"}
}

// Normalise extracts paragraph text from a DOCX document.
// Paragraphs are trimmed, empty ones dropped, and the rest joined with newlines.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, &domain.DecodeError{Path: raw.Path, Err: err}
	}

	paragraphs, err := extractParagraphs(reader)
	if err != nil {
		return nil, &domain.DecodeError{Path: raw.Path, Err: err}
	}

	return &driven.NormaliseResult{
		Document: domain.SourceDocument{
			Content:    strings.Join(paragraphs, "\n"),
			SourcePath: raw.Path,
		},
	}, nil
}

// extractParagraphs reads word/document.xml and returns its non-empty paragraphs.
func extractParagraphs(reader *zip.Reader) ([]string, error) {
	for _, file := range reader.File {
		if file.Name != documentPart {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}

		return parseDocumentXML(content)
	}
	return nil, errMissingDocumentPart
}

// parseDocumentXML returns the text of each top-level body paragraph in
// document order. Run text is collected wherever the run is nested
// (hyperlinks, insertions, smart tags). Tabs become "\t" and line breaks "\n".
// Text boxes inside a paragraph are skipped.
func parseDocumentXML(content []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))

	var (
		paragraphs []string
		stack      []string
		sb         strings.Builder
		paraDepth  = -1 // stack depth of the open body paragraph
		textBoxes  int
		inText     bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			name := el.Name.Local
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, name)

			switch {
			case paraDepth < 0:
				if name == "p" && parent == "body" {
					paraDepth = len(stack)
					sb.Reset()
				}
			case name == "txbxContent":
				textBoxes++
			case textBoxes > 0 || parent != "r":
			case name == "t":
				inText = true
			case name == "tab", name == "ptab":
				sb.WriteByte('\t')
			case name == "cr":
				sb.WriteByte('\n')
			case name == "br":
				if isLineBreak(el) {
					sb.WriteByte('\n')
				}
			case name == "noBreakHyphen":
				sb.WriteByte('-')
			}

		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			name := stack[len(stack)-1]
			if paraDepth > 0 && len(stack) == paraDepth {
				if text := strings.TrimSpace(sb.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
				paraDepth = -1
			}
			switch name {
			case "t":
				inText = false
			case "txbxContent":
				if textBoxes > 0 {
					textBoxes--
				}
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if inText && textBoxes == 0 && paraDepth > 0 {
				sb.Write(el)
			}
		}
	}

	return paragraphs, nil
}

// isLineBreak reports whether a br element is a text wrapping break.
// Page and column breaks carry no text.
func isLineBreak(el xml.StartElement) bool {
	for _, attr := range el.Attr {
		if attr.Name.Local == "type" {
			return attr.Value == "" || attr.Value == "textWrapping"
		}
	}
	return true
}
