package coach

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/sterrysx/gymai/internal/telemetry/tracing"
	"github.com/sterrysx/gymai/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=coach_test

type coachService interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	History(ctx context.Context) ([]ConversationInfo, error)
	Conversation(ctx context.Context, id string) (*Conversation, error)
}

type HistoryResponse struct {
	Conversations []ConversationInfo `json:"conversations"`
}

type Handler struct {
	service coachService
}

func NewHandler(service coachService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.chat")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("chat, unmarshal json params: %s", err)
		http.Error(w, "chat failed", http.StatusBadRequest)
		return
	}

	resp, err := handler.service.Chat(ctx, req)
	if err != nil {
		if errors.Is(err, ErrEmptyMessage) {
			http.Error(w, "message is empty", http.StatusBadRequest)
			return
		}
		log.Errorf("chat [%s]: %s", req.ConversationID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, resp, http.StatusOK)
}

func (handler *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.history")
	defer span.End()

	conversations, err := handler.service.History(ctx)
	if err != nil {
		log.Errorf("chat history: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, HistoryResponse{Conversations: conversations}, http.StatusOK)
}

func (handler *Handler) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.conversation")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, conversation id empty", http.StatusBadRequest)
		return
	}

	conv, err := handler.service.Conversation(ctx, id)
	if err != nil {
		if errors.Is(err, ErrConversationNotFound) {
			http.Error(w, "conversation not found", http.StatusNotFound)
			return
		}
		log.Errorf("get conversation [%s]: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, conv, http.StatusOK)
}
