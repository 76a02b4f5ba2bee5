package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/apierror"
	"github.com/saadmalik-333/business-insight-pos/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// EventSubscriber is implemented by worker.EventBus.
type EventSubscriber interface {
	Subscribe(ctx context.Context) (<-chan dto.SaleEvent, func() error, error)
}

// EventsHandler streams sale events to dashboards over Server-Sent Events.
type EventsHandler struct {
	bus       EventSubscriber
	heartbeat time.Duration
}

func NewEventsHandler(bus EventSubscriber) *EventsHandler {
	return &EventsHandler{bus: bus, heartbeat: 25 * time.Second}
}

// Stream godoc
// @Summary      Sale event stream
// @Description  Server-Sent Events: one "sale.completed" / "sale.voided" event per change, "ping" every 25s.
// @Tags         events
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200
// @Failure      503 {object} apierror.APIError
// @Router       /v1/events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	events, closeSub, err := h.bus.Subscribe(ctx)
	if err != nil {
		log.Error().Err(err).Msg("events: subscribe failed")
		c.JSON(http.StatusServiceUnavailable, apierror.New("event stream unavailable"))
		return
	}
	defer func() { _ = closeSub() }()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(ev.Type, ev)
			return true
		case t := <-heartbeat.C:
			c.SSEvent("ping", gin.H{"at": t.UTC().Format(time.RFC3339)})
			return true
		}
	})
}
