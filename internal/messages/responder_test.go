package messages

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/mkravchenko/legal-assistant-backend/internal/llm"
	"github.com/mkravchenko/legal-assistant-backend/internal/models"
	"github.com/mkravchenko/legal-assistant-backend/internal/rag"
)

type fakeWriter struct {
	created []models.Message
	err     error
}

func (f *fakeWriter) Create(ctx context.Context, chatID uuid.UUID, role, content string) (*models.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	m := models.Message{ID: uuid.New(), ChatID: chatID, Role: role, Content: content}
	f.created = append(f.created, m)
	return &m, nil
}

type fakeRetriever struct {
	chunks []string
	images []rag.Attachment
}

func (f *fakeRetriever) ContextChunks(ctx context.Context, caseID uuid.UUID) ([]string, error) {
	return f.chunks, nil
}

func (f *fakeRetriever) ImageAttachments(ctx context.Context, caseID uuid.UUID) ([]rag.Attachment, error) {
	return f.images, nil
}

type fakeStreamer struct {
	chunks []llm.StreamChunk
	prompt []llm.Message
}

func (f *fakeStreamer) StreamReply(ctx context.Context, messages []llm.Message) (<-chan llm.StreamChunk, error) {
	f.prompt = messages
	ch := make(chan llm.StreamChunk, len(f.chunks))
	for _, c := range f.chunks {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func testChat() models.Chat {
	return models.Chat{ID: uuid.New(), CaseID: uuid.New(), Title: "consultation"}
}

func TestStreamReplyForwardsAndPersists(t *testing.T) {
	writer := &fakeWriter{}
	streamer := &fakeStreamer{chunks: []llm.StreamChunk{
		{Content: "Hel"},
		{Content: "lo"},
		{Content: " world"},
	}}
	r := NewResponder(writer, &fakeRetriever{chunks: []string{"ctx"}}, streamer, "sys")

	var sent string
	history := []llm.Message{{Role: "user", Content: "greet me"}}
	err := r.StreamReply(context.Background(), testChat(), history, func(tok string) error {
		sent += tok
		return nil
	})
	if err != nil {
		t.Fatalf("StreamReply: %v", err)
	}

	if sent != "Hello world" {
		t.Errorf("sink received %q, want %q", sent, "Hello world")
	}
	if len(writer.created) != 1 {
		t.Fatalf("persisted %d messages, want 1", len(writer.created))
	}
	got := writer.created[0]
	if got.Role != models.RoleAssistant || got.Content != "Hello world" {
		t.Errorf("persisted %+v", got)
	}

	// The prompt starts with the system entries and ends with the history.
	if len(streamer.prompt) < 2 {
		t.Fatalf("prompt has %d messages", len(streamer.prompt))
	}
	if streamer.prompt[0].Content != "sys" {
		t.Errorf("prompt[0] = %+v", streamer.prompt[0])
	}
	if last := streamer.prompt[len(streamer.prompt)-1]; last.Content != "greet me" {
		t.Errorf("prompt does not end with history: %+v", last)
	}
}

func TestStreamReplyWhitespaceOnlyNotPersisted(t *testing.T) {
	writer := &fakeWriter{}
	streamer := &fakeStreamer{chunks: []llm.StreamChunk{
		{Content: "  "},
		{Content: "\n"},
	}}
	r := NewResponder(writer, &fakeRetriever{}, streamer, "sys")

	err := r.StreamReply(context.Background(), testChat(), nil, func(string) error { return nil })
	if err != nil {
		t.Fatalf("StreamReply: %v", err)
	}
	if len(writer.created) != 0 {
		t.Errorf("persisted %d messages, want 0", len(writer.created))
	}
}

func TestStreamReplyPersistsPartialOnStreamError(t *testing.T) {
	writer := &fakeWriter{}
	streamer := &fakeStreamer{chunks: []llm.StreamChunk{
		{Content: "partial answer"},
		{Error: errors.New("upstream closed"), Done: true},
	}}
	r := NewResponder(writer, &fakeRetriever{}, streamer, "sys")

	err := r.StreamReply(context.Background(), testChat(), nil, func(string) error { return nil })
	if err == nil {
		t.Fatal("expected error")
	}
	if len(writer.created) != 1 || writer.created[0].Content != "partial answer" {
		t.Errorf("persisted = %+v, want the partial content", writer.created)
	}
}

func TestStreamReplyKeepsDrainingAfterSinkFailure(t *testing.T) {
	writer := &fakeWriter{}
	streamer := &fakeStreamer{chunks: []llm.StreamChunk{
		{Content: "one "},
		{Content: "two "},
		{Content: "three"},
	}}
	r := NewResponder(writer, &fakeRetriever{}, streamer, "sys")

	calls := 0
	err := r.StreamReply(context.Background(), testChat(), nil, func(string) error {
		calls++
		if calls >= 2 {
			return errors.New("client gone")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("StreamReply: %v", err)
	}

	if calls != 2 {
		t.Errorf("sink called %d times, want 2 (disabled after first failure)", calls)
	}
	if len(writer.created) != 1 || writer.created[0].Content != "one two three" {
		t.Errorf("persisted = %+v, want the full reply", writer.created)
	}
}

func TestStreamReplyNilSink(t *testing.T) {
	writer := &fakeWriter{}
	streamer := &fakeStreamer{chunks: []llm.StreamChunk{{Content: "reply"}}}
	r := NewResponder(writer, &fakeRetriever{}, streamer, "sys")

	if err := r.StreamReply(context.Background(), testChat(), nil, nil); err != nil {
		t.Fatalf("StreamReply: %v", err)
	}
	if len(writer.created) != 1 || writer.created[0].Content != "reply" {
		t.Errorf("persisted = %+v", writer.created)
	}
}
