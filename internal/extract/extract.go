package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedType indicates a file type outside the pdf/docx allow-list.
var ErrUnsupportedType = errors.New("unsupported file type")

// ExtractionError wraps the underlying cause of a failed extraction attempt.
type ExtractionError struct {
	FileType string
	Cause    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s document: %v", e.FileType, e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// Extractor produces plain text from a document file given its declared type.
type Extractor interface {
	Extract(ctx context.Context, filePath string, fileType string) (string, error)
}

// FileExtractor is the default Extractor over local files. A single attempt
// is made per document; failures are terminal for the processing run.
type FileExtractor struct{}

// Extract dispatches on fileType and returns the document's plain text.
func (FileExtractor) Extract(ctx context.Context, filePath string, fileType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	switch strings.ToLower(fileType) {
	case "pdf":
		text, err := extractPDF(filePath)
		if err != nil {
			return "", &ExtractionError{FileType: "pdf", Cause: err}
		}
		return text, nil
	case "docx":
		text, err := extractDOCX(filePath)
		if err != nil {
			return "", &ExtractionError{FileType: "docx", Cause: err}
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, fileType)
	}
}

func extractPDF(filePath string) (string, error) {
	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("document.xml file not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}

	return stripDocxXML(string(raw)), nil
}

// stripDocxXML collects character data, inserting newlines at paragraph and
// line-break boundaries.
func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

var _ Extractor = FileExtractor{}
