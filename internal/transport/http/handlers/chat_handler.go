package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/maisachinsharmahu/vanbackend/internal/domain/enums"
	"github.com/maisachinsharmahu/vanbackend/internal/domain/model"
	chatsvc "github.com/maisachinsharmahu/vanbackend/internal/services/chat"
	"github.com/maisachinsharmahu/vanbackend/internal/services/entitlements"
	"github.com/maisachinsharmahu/vanbackend/internal/transport/http/dto"
	httperrors "github.com/maisachinsharmahu/vanbackend/internal/transport/http/errors"
)

type ChatHandler struct {
	service *chatsvc.Service
}

func NewChatHandler(service *chatsvc.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrAbort(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.MatchID <= 0 || strings.TrimSpace(req.Content) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "match_id and content are required")
		return
	}

	message, err := h.service.Send(r.Context(), identity.UserID, req.MatchID, req.Content)
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, mapMessage(message))
}

// DatingChats is the dating-mode inbox: one thread per accepted match,
// most recently active first.
func (h *ChatHandler) DatingChats(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrAbort(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	threads, err := h.service.Threads(r.Context(), identity.UserID, enums.MatchModeDating, queryLimit(r))
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	items := make([]dto.ThreadResponse, 0, len(threads))
	for _, thread := range threads {
		item := dto.ThreadResponse{
			MatchID:     thread.MatchID,
			RoomKey:     thread.RoomKey,
			UserID:      thread.UserID,
			Name:        thread.Name,
			Handle:      thread.Handle,
			Mode:        string(thread.Mode),
			UnreadCount: thread.UnreadCount,
			MatchedAt:   thread.MatchedAt,
		}
		if thread.LastMessage != nil {
			last := mapMessage(*thread.LastMessage)
			item.LastMessage = &last
		}
		items = append(items, item)
	}

	httperrors.Write(w, http.StatusOK, dto.ThreadsResponse{Items: items})
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrAbort(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "CHAT_SERVICE_UNAVAILABLE", "chat service is unavailable")
		return
	}

	matchID, err := strconv.ParseInt(chi.URLParam(r, "matchID"), 10, 64)
	if err != nil || matchID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match id")
		return
	}

	if err := h.service.MarkRead(r.Context(), identity.UserID, matchID); err != nil {
		h.writeChatError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

func (h *ChatHandler) writeChatError(w http.ResponseWriter, err error) {
	var limitErr *entitlements.LimitError
	switch {
	case errors.Is(err, chatsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid chat request")
	case errors.Is(err, chatsvc.ErrMessageTooLong):
		writeBadRequest(w, "MESSAGE_TOO_LONG", "message exceeds the allowed length")
	case errors.Is(err, chatsvc.ErrMatchNotFound):
		writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
	case errors.Is(err, chatsvc.ErrNotParticipant):
		writeForbidden(w, "NOT_PARTICIPANT", "you are not part of this match")
	case errors.Is(err, chatsvc.ErrNotMatched):
		writeForbidden(w, "NOT_MATCHED", "messaging requires an accepted match")
	case errors.Is(err, entitlements.ErrUserNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	case errors.As(err, &limitErr):
		writeLimitError(w, limitErr)
	default:
		writeInternal(w, "INTERNAL_ERROR", "failed to process chat request")
	}
}

func mapMessage(message model.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:        message.ID,
		RoomKey:   message.RoomKey,
		SenderID:  message.SenderID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}
}
