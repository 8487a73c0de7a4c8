package endpoints

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/yachtexcel/yachtexcel/pkg/audit"
	"github.com/yachtexcel/yachtexcel/pkg/notify"
	"github.com/yachtexcel/yachtexcel/pkg/role"
	"github.com/yachtexcel/yachtexcel/pkg/server"
)

// RegisterNotificationsEndpoints registers the e-mail and WhatsApp send
// endpoints.
func RegisterNotificationsEndpoints(s *server.Server) {
	r := protected(s, "/notifications")
	for _, channel := range []string{notify.ChannelEmail, notify.ChannelWhatsApp} {
		r.HandleFunc("/"+channel, requirePermission(s, role.ResourceNotifications, role.ActionWrite, handleNotify(s, channel))).Methods("POST")
	}
}

// handleNotify validates the recipients and sends synchronously; 202 means
// the vendor accepted the message. When only some recipients were reached the
// response is 207 with per-recipient results.
func handleNotify(s *server.Server, channel string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, ok := s.Notifiers[channel]
		if !ok || n == nil {
			respondWithError(w, http.StatusNotImplemented, channel+" notifications are not configured")
			return
		}

		var req notify.Notification
		if !decodeJSON(w, r, maxBodyBytes, &req) {
			return
		}
		if err := n.Validate(req); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		err := n.Send(r.Context(), req)
		s.Metrics.ObserveNotification(channel, err)

		id := caller(r)
		event := audit.NotificationEvent{
			UserID:     id.UserID,
			ClientIP:   id.ClientIP(),
			Channel:    channel,
			Recipients: len(req.To),
			Success:    err == nil,
		}
		if err != nil {
			event.ErrorMessage = err.Error()
		}
		audit.Log(r.Context(), event)

		var (
			apiErr   *notify.APIError
			delivery *notify.DeliveryError
		)
		switch {
		case errors.As(err, &delivery) && len(delivery.Delivered) > 0:
			failed := make([]map[string]string, 0, len(delivery.Failed))
			for _, f := range delivery.Failed {
				failed = append(failed, map[string]string{"to": f.To, "error": f.Err.Error()})
			}
			respondWithJSON(w, http.StatusMultiStatus, map[string]interface{}{
				"channel":    channel,
				"recipients": len(req.To),
				"status":     "partial",
				"delivered":  delivery.Delivered,
				"failed":     failed,
			})
		case errors.Is(err, notify.ErrNotConfigured):
			respondWithError(w, http.StatusNotImplemented, channel+" notifications are not configured")
		case errors.As(err, &apiErr):
			respondWithError(w, http.StatusBadGateway, apiErr.Error())
		case err != nil:
			s.Logger.Error("notification failed", zap.String("channel", channel), zap.Error(err))
			respondWithError(w, http.StatusBadGateway, "notification failed")
		default:
			respondWithJSON(w, http.StatusAccepted, map[string]interface{}{
				"channel":    channel,
				"recipients": len(req.To),
				"status":     "accepted",
			})
		}
	}
}
