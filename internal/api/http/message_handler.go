package http

import (
	"net/http"

	"rentloop-backend/internal/service"
)

type MessageHandler struct {
	messages service.MessageService
}

func NewMessageHandler(messages service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type sendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	msg, err := h.messages.SendMessage(r.Context(), userID(r), bookingID, req.Body)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, msg)
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	page, pageSize := pagination(r)
	msgs, total, err := h.messages.ListMessages(r.Context(), userID(r), bookingID, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondPage(w, msgs, page, pageSize, total)
}
