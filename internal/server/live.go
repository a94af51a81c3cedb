package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Zachkp/portfolio/internal/events"
	"github.com/Zachkp/portfolio/internal/logger"
	"github.com/Zachkp/portfolio/internal/section"
	"github.com/Zachkp/portfolio/internal/view"
)

const (
	liveReadLimit = 4096
	liveWriteWait = 5 * time.Second
	liveIdle      = 10 * time.Minute
)

// liveError is sent when an inbound message cannot be applied.
type liveError struct {
	Error string `json:"error"`
}

// handleLive mounts one view for the lifetime of the websocket. Each
// inbound event is applied and answered with the resulting view state.
func (s *Server) handleLive(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn(c.Request.Context(), "websocket upgrade", logger.Error(err))
		return
	}
	defer conn.Close()

	// The request context is not tied to the hijacked connection.
	ctx := context.WithoutCancel(c.Request.Context())

	bus := events.NewBus()
	defer bus.Close()

	v := view.New(s.profile, view.WithOnSelect(func(id section.ID, err error) {
		if err != nil {
			s.log.Debug(ctx, "selection rejected", logger.String("section", string(id)))
		}
	}))
	if err := v.Mount(bus); err != nil {
		s.log.Error(ctx, "mount view", logger.Error(err))
		return
	}
	s.live.Add(1)
	s.metrics.ViewMounted()
	log := s.log.Named("live")
	log.Debug(ctx, "view mounted", logger.String("view", v.ID()))
	defer func() {
		v.Unmount()
		s.live.Add(-1)
		s.metrics.ViewUnmounted()
		log.Debug(ctx, "view unmounted", logger.String("view", v.ID()))
	}()

	conn.SetReadLimit(liveReadLimit)
	if err := s.write(conn, v.State()); err != nil {
		return
	}

	for {
		_ = conn.SetReadDeadline(time.Now().Add(liveIdle))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug(ctx, "websocket read", logger.Error(err))
			}
			return
		}

		var e events.Event
		if err := json.Unmarshal(raw, &e); err != nil {
			if s.write(conn, liveError{Error: "invalid message"}) != nil {
				return
			}
			continue
		}

		if _, err := events.ParseKind(string(e.Kind)); err != nil {
			if s.write(conn, liveError{Error: "unknown event type: " + string(e.Kind)}) != nil {
				return
			}
			continue
		}
		s.metrics.ObserveEvent(string(e.Kind))
		bus.Publish(e)

		if err := s.write(conn, v.State()); err != nil {
			return
		}
	}
}

func (s *Server) write(conn *websocket.Conn, msg any) error {
	_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
	return conn.WriteJSON(msg)
}
