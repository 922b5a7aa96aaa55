package rag

import (
	"context"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/mkravchenko/legal-assistant-backend/internal/vectorstore"
)

type fakeDocSource struct {
	ids   []uuid.UUID
	files []Attachment
}

func (f *fakeDocSource) ListIDsByCase(ctx context.Context, caseID uuid.UUID) ([]uuid.UUID, error) {
	return f.ids, nil
}

func (f *fakeDocSource) ListFilesByCase(ctx context.Context, caseID uuid.UUID) ([]Attachment, error) {
	return f.files, nil
}

type fakeChunkSource struct {
	chunks   []vectorstore.Chunk
	queried  bool
	gotIDs   []uuid.UUID
	gotLimit int
}

func (f *fakeChunkSource) ListByDocuments(ctx context.Context, documentIDs []uuid.UUID, limit int) ([]vectorstore.Chunk, error) {
	f.queried = true
	f.gotIDs = documentIDs
	f.gotLimit = limit
	return f.chunks, nil
}

func TestContextChunksNoDocumentsShortCircuits(t *testing.T) {
	cs := &fakeChunkSource{}
	r := NewRetriever(&fakeDocSource{}, cs, 6, nil)

	got, err := r.ContextChunks(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ContextChunks: %v", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil", got)
	}
	if cs.queried {
		t.Error("chunk store queried for a case with no documents")
	}
}

func TestContextChunksPassesDocumentIDsAndLimit(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	cs := &fakeChunkSource{chunks: []vectorstore.Chunk{
		{Content: "first window"},
		{Content: "second window"},
	}}
	r := NewRetriever(&fakeDocSource{ids: ids}, cs, 4, nil)

	got, err := r.ContextChunks(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ContextChunks: %v", err)
	}

	if !reflect.DeepEqual(got, []string{"first window", "second window"}) {
		t.Errorf("contents = %v", got)
	}
	if !reflect.DeepEqual(cs.gotIDs, ids) {
		t.Errorf("queried ids = %v, want %v", cs.gotIDs, ids)
	}
	if cs.gotLimit != 4 {
		t.Errorf("limit = %d, want 4", cs.gotLimit)
	}
}

func TestImageAttachmentsFiltersByExtension(t *testing.T) {
	files := []Attachment{
		{URL: "u1", FileName: "contract.pdf"},
		{URL: "u2", FileName: "scan.PNG"},
		{URL: "u3", FileName: "photo.jpeg"},
		{URL: "", FileName: "broken.jpg"},
		{URL: "u5", FileName: "notes.txt"},
	}
	r := NewRetriever(&fakeDocSource{files: files}, &fakeChunkSource{}, 6, nil)

	got, err := r.ImageAttachments(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("ImageAttachments: %v", err)
	}

	want := []Attachment{
		{URL: "u2", FileName: "scan.PNG"},
		{URL: "u3", FileName: "photo.jpeg"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("images = %v, want %v", got, want)
	}
}

func TestIsImageFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"scan.png", true},
		{"scan.JPG", true},
		{"photo.jpeg", true},
		{"anim.gif", true},
		{"old.bmp", true},
		{"new.webp", true},
		{"fax.tiff", true},
		{"contract.pdf", false},
		{"archive.png.zip", false},
		{"noext", false},
	}
	for _, tt := range tests {
		if got := IsImageFile(tt.name); got != tt.want {
			t.Errorf("IsImageFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
