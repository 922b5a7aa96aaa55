package document

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestExtractTextPlain(t *testing.T) {
	got, err := ExtractText(context.Background(), []byte("  plain contents \n"), "notes.txt", "text/plain")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "plain contents" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTextUnknownTypeFallsBackToUTF8(t *testing.T) {
	got, err := ExtractText(context.Background(), []byte("raw bytes"), "data.bin", "application/octet-stream")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "raw bytes" {
		t.Errorf("got %q", got)
	}
}

func TestExtractTextLegacyDoc(t *testing.T) {
	// 0xE9 is é in Latin-1; a UTF-8 decode would mangle it.
	data := []byte{'r', 0xE9, 's', 'u', 'm', 0xE9}
	got, err := ExtractText(context.Background(), data, "old.doc", "application/msword")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "résumé" {
		t.Errorf("got %q, want %q", got, "résumé")
	}
}

func TestExtractTextDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte(`<w:document><w:p><w:t>Hello</w:t><w:t>docx</w:t></w:p></w:document>`)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := ExtractText(context.Background(), buf.Bytes(), "contract.docx", "")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(got, "Hello") || !strings.Contains(got, "docx") {
		t.Errorf("got %q, want the tag contents", got)
	}
	if strings.Contains(got, "<") {
		t.Errorf("got %q, markup not stripped", got)
	}
}

func TestExtractTextContentTypeBeatsMissingExtension(t *testing.T) {
	got, err := ExtractText(context.Background(), []byte("typed text"), "upload", "text/markdown")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "typed text" {
		t.Errorf("got %q", got)
	}
}
