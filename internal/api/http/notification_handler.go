package http

import (
	"net/http"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/service"
)

type NotificationHandler struct {
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	notes, total, err := h.notifications.GetNotifications(r.Context(), userID(r), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondPage(w, notes, page, pageSize, total)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.notifications.MarkAsRead(r.Context(), userID(r), id); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]bool{"read": true})
}

type preferenceRequest struct {
	Kind         string `json:"kind" validate:"required,max=64"`
	EmailEnabled bool   `json:"email_enabled"`
	PushEnabled  bool   `json:"push_enabled"`
}

func (h *NotificationHandler) SetPreference(w http.ResponseWriter, r *http.Request) {
	var req preferenceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	pref := &domain.NotificationPreference{
		UserID:       userID(r),
		Kind:         domain.NotificationKind(req.Kind),
		EmailEnabled: req.EmailEnabled,
		PushEnabled:  req.PushEnabled,
	}
	if err := h.notifications.SetPreference(r.Context(), pref); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, pref)
}

type registerDeviceRequest struct {
	Token    string `json:"token" validate:"required,max=512"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}

func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req registerDeviceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.notifications.RegisterDevice(r.Context(), userID(r), req.Token, req.Platform); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, map[string]bool{"registered": true})
}

type unregisterDeviceRequest struct {
	Token string `json:"token" validate:"required,max=512"`
}

func (h *NotificationHandler) UnregisterDevice(w http.ResponseWriter, r *http.Request) {
	var req unregisterDeviceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := h.notifications.UnregisterDevice(r.Context(), req.Token); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]bool{"unregistered": true})
}
