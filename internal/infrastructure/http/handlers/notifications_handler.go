package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/keerthi-manne/EL-management-System/internal/application/notify"
	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/application/team"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
	domerrors "github.com/keerthi-manne/EL-management-System/internal/domain/errors"
	"github.com/keerthi-manne/EL-management-System/internal/infrastructure/http/middleware"
)

// Inbox and feed timestamp layouts, kept from the original frontend
// contract (minute precision in the inbox, second precision on the feed).
const (
	inboxTimeLayout = "2006-01-02 15:04"
	feedTimeLayout  = "2006-01-02 15:04:05"
)

const inboxLimit = 50

// NotificationsHandler handles /notifications/*: dispatch, inbox,
// acknowledgement, invitation responses and the SSE feed.
type NotificationsHandler struct {
	dispatcher    *notify.Dispatcher
	notifications ports.NotificationRepository
	respond       *team.RespondInvitation
	feed          *notify.Feed
	log           zerolog.Logger
}

// NewNotificationsHandler wires the notification endpoints.
func NewNotificationsHandler(dispatcher *notify.Dispatcher, notifications ports.NotificationRepository, respond *team.RespondInvitation, feed *notify.Feed, log zerolog.Logger) *NotificationsHandler {
	return &NotificationsHandler{
		dispatcher:    dispatcher,
		notifications: notifications,
		respond:       respond,
		feed:          feed,
		log:           log,
	}
}

type sendRequest struct {
	ReceiverID string                  `json:"ReceiverID"`
	Message    string                  `json:"Message"`
	Type       string                  `json:"Type"`
	Data       domain.NotificationData `json:"Data"`
}

// Send dispatches a notification to one recipient. Delivery is
// best-effort: a store failure is logged by the dispatcher, not
// surfaced, so this returns 201 once the input validates.
func (h *NotificationsHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid JSON body")
		return
	}
	receiverID := SanitizeUserID(req.ReceiverID)
	message := SanitizeMessage(req.Message)
	if receiverID == "" || message == "" {
		writeErr(w, http.StatusBadRequest, "", "ReceiverID and Message are required")
		return
	}
	h.dispatcher.Dispatch(r.Context(), receiverID, message, req.Type, req.Data)
	middleware.RecordNotificationDispatched(req.Type)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Notification sent successfully"})
}

// notificationJSON is the flattened wire shape shared by the inbox and
// the feed. The payload's known keys are lifted to the top level.
type notificationJSON struct {
	NotificationID int64  `json:"NotificationID"`
	UserID         string `json:"UserID,omitempty"`
	Message        string `json:"message"`
	Type           string `json:"type"`
	Timestamp      string `json:"timestamp"`
	ProjectID      int64  `json:"projectId,omitempty"`
	InviterID      string `json:"inviterId,omitempty"`
	ProjectName    string `json:"projectName,omitempty"`
	IsRead         bool   `json:"isRead"`
}

func toNotificationJSON(n domain.Notification, layout string, includeUser bool) notificationJSON {
	out := notificationJSON{
		NotificationID: n.ID,
		Message:        n.Message,
		Type:           n.Type,
		Timestamp:      n.CreatedAt.Format(layout),
		ProjectID:      n.Data.ProjectID,
		InviterID:      n.Data.InviterID,
		ProjectName:    n.Data.ProjectName,
		IsRead:         n.Status == domain.NotificationRead,
	}
	if includeUser {
		out.UserID = n.UserID
	}
	return out
}

// Inbox returns the caller's 50 most recent notifications, newest first.
func (h *NotificationsHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.AuthFromContext(r.Context())
	if userID == "" {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	rows, err := h.notifications.ListByRecipient(r.Context(), userID, inboxLimit)
	if err != nil {
		h.log.Error().Err(err).Str("user", userID).Msg("inbox query failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	items := make([]notificationJSON, 0, len(rows))
	for _, n := range rows {
		items = append(items, toNotificationJSON(n, inboxTimeLayout, false))
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": items})
}

// MarkRead acknowledges one notification. Only the recipient may do so;
// anyone else gets the same 404 as a missing row.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.AuthFromContext(r.Context())
	if userID == "" {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid notification id")
		return
	}
	ok, err := h.notifications.MarkRead(r.Context(), id, userID)
	if err != nil {
		h.log.Error().Err(err).Int64("notification_id", id).Msg("mark read failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	if !ok {
		writeErr(w, http.StatusNotFound, "", "Notification not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// ApproveInvite accepts the caller's pending invitation for the project.
func (h *NotificationsHandler) ApproveInvite(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.AuthFromContext(r.Context())
	if userID == "" {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	projectID, err := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid project id")
		return
	}
	if err := h.respond.Approve(r.Context(), projectID, userID); err != nil {
		switch {
		case errors.Is(err, domerrors.ErrInvitationNotFound):
			writeErr(w, http.StatusNotFound, "", domerrors.ErrInvitationNotFound.Error())
		case errors.Is(err, domerrors.ErrAlreadyInTeam):
			writeErr(w, http.StatusForbidden, ErrCodeAlreadyInTeam, domerrors.ErrAlreadyInTeam.Error())
		default:
			h.log.Error().Err(err).Int64("project_id", projectID).Str("user", userID).Msg("approve invite failed")
			writeErr(w, http.StatusInternalServerError, "", "internal error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Successfully joined team!",
		"ProjectID": projectID,
	})
}

// RejectInvite declines the caller's pending invitation for the project.
func (h *NotificationsHandler) RejectInvite(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.AuthFromContext(r.Context())
	if userID == "" {
		writeErr(w, http.StatusUnauthorized, "", "unauthorized")
		return
	}
	projectID, err := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid project id")
		return
	}
	if err := h.respond.Reject(r.Context(), projectID, userID); err != nil {
		if errors.Is(err, domerrors.ErrInvitationNotFound) {
			writeErr(w, http.StatusNotFound, "", domerrors.ErrInvitationNotFound.Error())
			return
		}
		h.log.Error().Err(err).Int64("project_id", projectID).Str("user", userID).Msg("reject invite failed")
		writeErr(w, http.StatusInternalServerError, "", "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Invitation rejected"})
}

// Stream opens the SSE feed. The endpoint takes no token: the stream
// carries every user's unread notifications and the client filters by
// its own id. Events are `data: <json>\n\n`; idle polls emit a
// heartbeat so the connection stays distinguishable from a dead one.
func (h *NotificationsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErr(w, http.StatusInternalServerError, "", "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	closeGauge := middleware.FeedConnectionOpened()
	defer closeGauge()

	connID := uuid.New().String()
	log := h.log.With().Str("feed_conn", connID).Logger()
	log.Info().Msg("feed connection opened")

	err := h.feed.Run(r.Context(), &sseEmitter{w: w, flusher: flusher})
	if err != nil && !errors.Is(err, r.Context().Err()) {
		log.Warn().Err(err).Msg("feed connection torn down")
		return
	}
	log.Info().Msg("feed connection closed")
}

// sseEmitter writes feed events in SSE framing.
type sseEmitter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (e *sseEmitter) Notification(n domain.Notification) error {
	return e.event(toNotificationJSON(n, feedTimeLayout, true))
}

func (e *sseEmitter) Heartbeat() error {
	return e.event(map[string]string{"type": "heartbeat"})
}

func (e *sseEmitter) Error(msg string) error {
	return e.event(map[string]string{"error": msg})
}

func (e *sseEmitter) event(v any) error {
	if _, err := e.w.Write([]byte("data: ")); err != nil {
		return err
	}
	if err := encodeJSONNoNewline(e.w, v); err != nil {
		return err
	}
	if _, err := e.w.Write([]byte("\n\n")); err != nil {
		return err
	}
	e.flusher.Flush()
	return nil
}
