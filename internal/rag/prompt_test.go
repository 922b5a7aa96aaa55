package rag

import (
	"reflect"
	"testing"

	"github.com/mkravchenko/legal-assistant-backend/internal/llm"
)

func TestBuildMessagesOrder(t *testing.T) {
	history := []llm.Message{
		{Role: "user", Content: "first question"},
		{Role: "assistant", Content: "first answer"},
		{Role: "user", Content: "second question"},
	}
	images := []Attachment{
		{URL: "https://files.example/scan1.png", FileName: "scan1.png"},
		{URL: "https://files.example/scan2.jpg", FileName: "scan2.jpg"},
	}

	msgs := BuildMessages("system prompt", []string{"chunk A", "chunk B"}, images, history)

	if len(msgs) != 6 {
		t.Fatalf("got %d messages, want 6", len(msgs))
	}

	if msgs[0].Role != "system" || msgs[0].Content != "system prompt" {
		t.Errorf("first message = %+v, want system prompt", msgs[0])
	}

	wantContext := "Relevant case materials:\nchunk A\n---\nchunk B"
	if msgs[1].Role != "system" || msgs[1].Content != wantContext {
		t.Errorf("context message = %q, want %q", msgs[1].Content, wantContext)
	}

	if msgs[2].Role != "system" {
		t.Errorf("image message role = %q, want system", msgs[2].Role)
	}
	wantURLs := []string{"https://files.example/scan1.png", "https://files.example/scan2.jpg"}
	if !reflect.DeepEqual(msgs[2].ImageURLs, wantURLs) {
		t.Errorf("image URLs = %v, want %v", msgs[2].ImageURLs, wantURLs)
	}
	if msgs[2].Content == "" {
		t.Error("image message has no instruction text")
	}

	if !reflect.DeepEqual(msgs[3:], history) {
		t.Errorf("history not appended verbatim: got %+v", msgs[3:])
	}
}

func TestBuildMessagesNoContextNoImages(t *testing.T) {
	history := []llm.Message{{Role: "user", Content: "hi"}}

	msgs := BuildMessages("sys", nil, nil, history)

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Content != "sys" {
		t.Errorf("system message = %q", msgs[0].Content)
	}
	if !reflect.DeepEqual(msgs[1], history[0]) {
		t.Errorf("second message = %+v, want the lone history entry", msgs[1])
	}
}

func TestBuildMessagesEmptyHistory(t *testing.T) {
	msgs := BuildMessages("sys", []string{"only chunk"}, nil, nil)

	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[1].Content != "Relevant case materials:\nonly chunk" {
		t.Errorf("context message = %q", msgs[1].Content)
	}
}
