package messages

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mkravchenko/legal-assistant-backend/internal/llm"
	"github.com/mkravchenko/legal-assistant-backend/internal/models"
	"github.com/mkravchenko/legal-assistant-backend/internal/rag"
)

// ContextSource provides the retrieved case context for prompting.
type ContextSource interface {
	ContextChunks(ctx context.Context, caseID uuid.UUID) ([]string, error)
	ImageAttachments(ctx context.Context, caseID uuid.UUID) ([]rag.Attachment, error)
}

// Streamer produces the token stream for an assembled prompt.
type Streamer interface {
	StreamReply(ctx context.Context, messages []llm.Message) (<-chan llm.StreamChunk, error)
}

// MessageWriter persists messages; implemented by *Service.
type MessageWriter interface {
	Create(ctx context.Context, chatID uuid.UUID, role, content string) (*models.Message, error)
}

// TokenSink receives each reply token as it is produced, typically writing
// it straight to the HTTP response.
type TokenSink func(token string) error

// Responder runs the chat-reply flow: retrieve context, assemble the
// prompt, stream the model reply to the sink and persist the final
// assistant message.
type Responder struct {
	writer       MessageWriter
	retriever    ContextSource
	streamer     Streamer
	systemPrompt string
}

func NewResponder(writer MessageWriter, retriever ContextSource, streamer Streamer, systemPrompt string) *Responder {
	return &Responder{
		writer:       writer,
		retriever:    retriever,
		streamer:     streamer,
		systemPrompt: systemPrompt,
	}
}

// StreamReply streams an assistant reply for the chat. history must already
// include the just-posted user message, oldest entry first.
//
// Tokens are forwarded to sink in production order. If the sink fails (the
// client went away) the stream keeps draining so the full reply is still
// accumulated; the model call itself is never cancelled by the caller's
// context. Whatever accumulated by the time the stream ends, normally or
// with an error, is committed as one assistant message unless it trims
// to nothing.
func (r *Responder) StreamReply(ctx context.Context, chat models.Chat, history []llm.Message, sink TokenSink) (err error) {
	chunks, err := r.retriever.ContextChunks(ctx, chat.CaseID)
	if err != nil {
		return fmt.Errorf("retrieve context: %w", err)
	}

	images, err := r.retriever.ImageAttachments(ctx, chat.CaseID)
	if err != nil {
		return fmt.Errorf("retrieve attachments: %w", err)
	}

	prompt := rag.BuildMessages(r.systemPrompt, chunks, images, history)

	// Detached from the request context: a client disconnect must not abort
	// generation or the final persistence.
	streamCtx := context.WithoutCancel(ctx)

	tokens, err := r.streamer.StreamReply(streamCtx, prompt)
	if err != nil {
		return err
	}

	var buf strings.Builder
	defer func() {
		content := buf.String()
		if strings.TrimSpace(content) == "" {
			return
		}
		if _, perr := r.writer.Create(streamCtx, chat.ID, models.RoleAssistant, content); perr != nil {
			slog.Error("persist assistant reply", "chat_id", chat.ID, "error", perr)
			if err == nil {
				err = fmt.Errorf("persist assistant reply: %w", perr)
			}
		}
	}()

	for chunk := range tokens {
		if chunk.Error != nil {
			return fmt.Errorf("model stream: %w", chunk.Error)
		}
		buf.WriteString(chunk.Content)
		if sink != nil {
			if serr := sink(chunk.Content); serr != nil {
				slog.Warn("client stopped receiving stream", "chat_id", chat.ID, "error", serr)
				sink = nil
			}
		}
	}

	return nil
}
