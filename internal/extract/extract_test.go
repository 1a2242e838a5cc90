package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"meddoc-backend/internal/shared/storage/object/local"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	xml := `<?xml version="1.0" encoding="UTF-8"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`
	if _, err := w.Write([]byte(xml)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextFromBytes_ZipDocxNormalizes(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>Process validation protocol PV-12</w:t></w:r></w:p><w:p><w:r><w:t>Approved by QA</w:t></w:r></w:p>`)

	text, err := ExtractTextFromBytes(context.Background(), data, "application/zip", "sop.docx")
	if err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
	if text != "Process validation protocol PV-12\nApproved by QA" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractTextFromBytes_RealZipRejected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if !strings.Contains(err.Error(), "application/zip") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractTextFromBytes_EmptyTextIsNoText(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>   </w:t></w:r></w:p>`)
	if _, err := ExtractTextFromBytes(context.Background(), data, MimeDOCX, "blank.docx"); !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
	if _, err := ExtractTextFromBytes(context.Background(), []byte(" \n\t"), "text/plain", "blank.txt"); !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText for whitespace text, got %v", err)
	}
}

func TestExtractTextFromBytes_BrokenPDF(t *testing.T) {
	_, err := ExtractTextFromBytes(context.Background(), []byte("%PDF-1.7\nnot really a pdf"), "", "scan.pdf")
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
}

func TestExtractTextFromBytes_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExtractTextFromBytes(ctx, []byte("text"), "text/plain", "a.txt"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNormalizeMimeType(t *testing.T) {
	tests := []struct {
		name, mime, file string
		data             []byte
		want             string
	}{
		{name: "pdf magic wins", mime: "application/octet-stream", file: "upload", data: []byte("%PDF-1.4"), want: MimePDF},
		{name: "pdf extension", mime: "", file: "SOP.PDF", want: MimePDF},
		{name: "charset stripped", mime: "text/plain; charset=utf-8", file: "a.txt", want: MimeText},
		{name: "markdown", mime: "text/markdown", file: "a.md", want: MimeText},
		{name: "image", mime: "image/png", file: "a.png", want: "image/png"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeMimeType(tt.mime, tt.file, tt.data); got != tt.want {
				t.Fatalf("NormalizeMimeType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPageCountNonPDF(t *testing.T) {
	if got := PageCount([]byte("hello"), "text/plain"); got != 0 {
		t.Fatalf("expected 0 pages for text, got %d", got)
	}
	if got := PageCount([]byte("%PDF-1.7 garbage"), MimePDF); got != 0 {
		t.Fatalf("expected 0 pages for unreadable pdf, got %d", got)
	}
}

func TestSaveExtractedPersistsDerivedCopy(t *testing.T) {
	store := local.New(t.TempDir())
	ctx := context.Background()

	key, _, _, err := store.Save(ctx, "session-1", "notes.txt", strings.NewReader("Receiving inspection records"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	text := "Receiving inspection records"
	derived, err := SaveExtracted(ctx, store, key, text)
	if err != nil {
		t.Fatalf("save extracted: %v", err)
	}
	if derived != key+".extracted.txt" {
		t.Fatalf("unexpected derived key: %q", derived)
	}

	rc, err := store.Open(ctx, derived)
	if err != nil {
		t.Fatalf("open extracted: %v", err)
	}
	defer rc.Close()
	saved, _ := io.ReadAll(rc)
	if string(saved) != text {
		t.Fatalf("derived copy mismatch: %q", saved)
	}
}
