package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-timeoff-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timeoff-go/internal/pkg/sse"
)

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type EventHandler interface {
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type EventHandlerImpl struct {
	hub        *sse.Hub
	jwtService jwt.Service
	keepalive  time.Duration
}

func NewEventHandler(hub *sse.Hub, jwtService jwt.Service) EventHandler {
	return &EventHandlerImpl{
		hub:        hub,
		jwtService: jwtService,
		keepalive:  30 * time.Second,
	}
}

// GetSSEToken generates a short-lived token for SSE connections
func (h *EventHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	tenant, ok := tenantFrom(w, r)
	if !ok {
		return
	}
	if tenant.Actor.EmployeeID == "" {
		response.Forbidden(w, "An employee profile is required")
		return
	}

	employeeID := tenant.Actor.EmployeeID
	token, expiresIn, err := h.jwtService.GenerateSSEToken(jwt.Claims{
		UserID:         tenant.Actor.UserID,
		EmployeeID:     &employeeID,
		OrganizationID: tenant.OrganizationID,
		Role:           tenant.Actor.Role,
	})
	if err != nil {
		slog.Error("failed to generate SSE token", "error", err)
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, SSETokenResponse{Token: token, ExpiresIn: expiresIn})
}

// Stream pushes time-off events for the token's employee.
func (h *EventHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	claims, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil || claims.EmployeeID == nil {
		response.Unauthorized(w, "Invalid token")
		return
	}
	employeeID := *claims.EmployeeID

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(employeeID)
	defer func() {
		cleanup()
		slog.Debug("event stream closed", "employee_id", employeeID, "subscribers", h.hub.SubscriberCount(employeeID))
	}()
	slog.Debug("event stream opened", "employee_id", employeeID, "subscribers", h.hub.SubscriberCount(employeeID))

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"employee_id\":\"%s\"}\n\n", employeeID)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := event.WriteTo(w); err != nil {
				slog.Warn("failed to write event", "employee_id", employeeID, "event", event.Name, "error", err)
				continue
			}
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
