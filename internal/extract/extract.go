package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
)

// maxContentChars caps how much extracted text a single document may
// produce. Extraction fails outright beyond this point rather than
// silently truncating someone's document.
const maxContentChars = 10_000_000

var (
	// ErrExtraction wraps any parser failure for a supported file type.
	ErrExtraction = errors.New("text extraction failed")
	// ErrUnsupportedType marks file types no extractor handles.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Text extracts plain text from an in-memory document payload. The
// extractor is chosen by file extension; contentType is only consulted
// when the extension is missing or unknown. A document that parses but
// contains no text yields ("", nil).
func Text(ctx context.Context, data []byte, fileName string, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = extFromContentType(contentType)
	}

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx":
		text, err = extractDOCX(data)
	case ".doc":
		text, err = extractDOC(data)
	case ".txt":
		text = string(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, strings.TrimPrefix(ext, "."))
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtraction, strings.TrimPrefix(ext, "."), err)
	}

	if utf8.RuneCountInString(text) > maxContentChars {
		return "", fmt.Errorf("%w: document text exceeds %d characters", ErrExtraction, maxContentChars)
	}
	return strings.TrimSpace(text), nil
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	readerAt := bytes.NewReader(data)
	zr, err := zip.NewReader(readerAt, int64(len(data)))
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

	return stripDocxXML(string(raw))
}

// extractDOC handles the legacy binary Word format via docconv.
func extractDOC(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty doc data")
	}
	res, err := docconv.Convert(bytes.NewReader(data), "application/msword", false)
	if err != nil {
		return "", err
	}
	return res.Body, nil
}

func stripDocxXML(raw string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if last := buf.Len(); last > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

func extFromContentType(contentType string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	switch clean {
	case "application/pdf":
		return ".pdf"
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return ".docx"
	case "application/msword":
		return ".doc"
	case "text/plain":
		return ".txt"
	default:
		return ""
	}
}
