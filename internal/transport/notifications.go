package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// streamHeartbeat keeps idle SSE connections open through proxies.
const streamHeartbeat = 25 * time.Second

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	inbox, err := s.notifications.List(r.Context(), mustActor(r).ID)
	if err != nil {
		s.writeError(w, r, "", err, "Error fetching notifications")
		return
	}
	respond(w, http.StatusOK, envelope{
		"notifications": inbox.Notifications,
		"unreadCount":   inbox.UnreadCount,
	})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	n, err := s.notifications.MarkRead(r.Context(), mustActor(r).ID, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, "", err, "Error updating notification")
		return
	}
	respond(w, http.StatusOK, envelope{"notification": n})
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := s.notifications.MarkAllRead(r.Context(), mustActor(r).ID); err != nil {
		s.writeError(w, r, "", err, "Error updating notifications")
		return
	}
	respond(w, http.StatusOK, envelope{"message": "All notifications marked as read"})
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := s.notifications.Delete(r.Context(), mustActor(r).ID, chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, "", err, "Error deleting notification")
		return
	}
	respond(w, http.StatusOK, envelope{"message": "Notification deleted"})
}

// handleNotificationStream relays the actor's notifications as server-sent
// events until the client disconnects.
func (s *Server) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	if s.stream == nil {
		fail(w, http.StatusServiceUnavailable, "Realtime notifications are not enabled")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		fail(w, http.StatusInternalServerError, "Streaming is not supported")
		return
	}

	actor := mustActor(r)
	ctx := r.Context()
	sub, err := s.stream.Subscribe(ctx, s.stream.NotificationChannel(actor.ID))
	if err != nil {
		s.writeError(w, r, "", err, "Error opening notification stream")
		return
	}
	defer func() { _ = sub.Close() }()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(streamHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case payload, ok := <-sub.Events():
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: notification\ndata: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
