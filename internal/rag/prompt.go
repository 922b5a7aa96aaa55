package rag

import (
	"strings"

	"github.com/mkravchenko/legal-assistant-backend/internal/llm"
)

const (
	contextHeader    = "Relevant case materials:\n"
	contextSeparator = "\n---\n"
	imageInstruction = "Visual case materials are attached. Analyze the images when forming your reply."
)

// BuildMessages assembles the prompt in its fixed order: the system prompt,
// then the retrieved context as one system entry, then the case images with
// an analysis instruction, then the chat history verbatim, oldest first.
// The caller appends the new user message to history before calling.
func BuildMessages(systemPrompt string, contextChunks []string, images []Attachment, history []llm.Message) []llm.Message {
	msgs := make([]llm.Message, 0, len(history)+3)

	msgs = append(msgs, llm.Message{Role: "system", Content: systemPrompt})

	if len(contextChunks) > 0 {
		msgs = append(msgs, llm.Message{
			Role:    "system",
			Content: contextHeader + strings.Join(contextChunks, contextSeparator),
		})
	}

	if len(images) > 0 {
		urls := make([]string, len(images))
		for i, img := range images {
			urls[i] = img.URL
		}
		msgs = append(msgs, llm.Message{
			Role:      "system",
			Content:   imageInstruction,
			ImageURLs: urls,
		})
	}

	return append(msgs, history...)
}
