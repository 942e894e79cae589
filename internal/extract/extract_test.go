package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestTextPlain(t *testing.T) {
	got, err := Text(context.Background(), []byte("  hello world\n"), "notes.txt", "text/plain")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "hello world" {
		t.Fatalf("got %q, want %q", got, "hello world")
	}
}

func TestTextDocx(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second paragraph.</w:t></w:r></w:p>
  </w:body>
</w:document>`
	got, err := Text(context.Background(), buildDocx(t, doc), "report.docx", "")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(got, "First paragraph.") || !strings.Contains(got, "Second paragraph.") {
		t.Fatalf("missing paragraphs in %q", got)
	}
}

func TestTextDocxMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("<styles/>")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = Text(context.Background(), buf.Bytes(), "broken.docx", "")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("want ErrExtraction, got %v", err)
	}
}

func TestTextUnsupportedExtension(t *testing.T) {
	_, err := Text(context.Background(), []byte("x"), "image.png", "image/png")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("want ErrUnsupportedType, got %v", err)
	}
}

func TestTextExtensionFromContentType(t *testing.T) {
	got, err := Text(context.Background(), []byte("fallback body"), "upload", "text/plain; charset=utf-8")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "fallback body" {
		t.Fatalf("got %q", got)
	}
}

func TestTextWhitespaceOnly(t *testing.T) {
	got, err := Text(context.Background(), []byte("   \n\t  "), "blank.txt", "")
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got != "" {
		t.Fatalf("want empty text, got %q", got)
	}
}

func TestTextCorruptPDF(t *testing.T) {
	_, err := Text(context.Background(), []byte("not a pdf"), "broken.pdf", "application/pdf")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("want ErrExtraction, got %v", err)
	}
}

func TestTextCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Text(ctx, []byte("hello"), "a.txt", "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestStripDocxXMLParagraphBreaks(t *testing.T) {
	raw := `<d><p>one</p><p>two</p></d>`
	got, err := stripDocxXML(raw)
	if err != nil {
		t.Fatalf("stripDocxXML: %v", err)
	}
	if got != "one\ntwo" {
		t.Fatalf("got %q, want %q", got, "one\ntwo")
	}
}

func TestTextDocxMalformedDocumentXML(t *testing.T) {
	doc := `<w:document><w:p><w:t>visible text.</w:t></w:p`
	text, err := Text(context.Background(), buildDocx(t, doc), "broken.docx", "")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("want ErrExtraction, got %v", err)
	}
	if text != "" {
		t.Fatalf("want no text for malformed document, got %q", text)
	}
}
