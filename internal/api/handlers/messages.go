package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mkravchenko/legal-assistant-backend/internal/chats"
	"github.com/mkravchenko/legal-assistant-backend/internal/llm"
	"github.com/mkravchenko/legal-assistant-backend/internal/messages"
	"github.com/mkravchenko/legal-assistant-backend/internal/models"
)

type MessageHandler struct {
	msgSvc    *messages.Service
	chatSvc   *chats.Service
	responder *messages.Responder
}

func NewMessageHandler(msgSvc *messages.Service, chatSvc *chats.Service, responder *messages.Responder) *MessageHandler {
	return &MessageHandler{msgSvc: msgSvc, chatSvc: chatSvc, responder: responder}
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	chatID, err := uuid.Parse(chi.URLParam(r, "chatID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid chat ID")
		return
	}

	list, err := h.msgSvc.List(r.Context(), chatID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"messages": list, "count": len(list)})
}

func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	chatID, err := uuid.Parse(chi.URLParam(r, "chatID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid chat ID")
		return
	}

	var req struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if !models.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "invalid role")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content required")
		return
	}

	if _, err := h.chatSvc.Get(r.Context(), chatID); err != nil {
		writeLookupError(w, err, "chat not found")
		return
	}

	m, err := h.msgSvc.Create(r.Context(), chatID, req.Role, req.Content)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

// Stream answers the posted user message with a plain-text token stream.
// The posted message itself is not persisted; it rides along in the prompt
// history for this turn only. The assistant reply is persisted once the
// stream ends.
func (h *MessageHandler) Stream(w http.ResponseWriter, r *http.Request) {
	chatID, err := uuid.Parse(chi.URLParam(r, "chatID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid chat ID")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	chat, err := h.chatSvc.Get(r.Context(), chatID)
	if err != nil {
		writeLookupError(w, err, "chat not found")
		return
	}

	stored, err := h.msgSvc.List(r.Context(), chatID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	history := make([]llm.Message, 0, len(stored)+1)
	for _, m := range stored {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}
	history = append(history, llm.Message{Role: models.RoleUser, Content: req.Content})

	wrote := false
	sink := func(token string) error {
		if !wrote {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Header().Set("Cache-Control", "no-cache")
			w.WriteHeader(http.StatusOK)
			wrote = true
		}
		if _, err := w.Write([]byte(token)); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	if err := h.responder.StreamReply(r.Context(), *chat, history, sink); err != nil {
		if !wrote {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		// Headers are out; all we can do is cut the stream short.
		slog.Error("reply stream aborted", "chat_id", chatID, "error", err)
	}
}
