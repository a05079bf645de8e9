package live

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"designer-dashboard-backend/internal/editor"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

type client struct {
	hub  *Hub
	conn *websocket.Conn
	ctrl *editor.Controller
	log  *zap.Logger

	out       chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(h *Hub, conn *websocket.Conn) *client {
	log := h.log.With(zap.String("remote", conn.RemoteAddr().String()))
	return &client{
		hub:  h,
		conn: conn,
		ctrl: editor.NewController(h.objects, h.committer, log),
		log:  log,
		out:  make(chan []byte, h.sendBuffer),
		done: make(chan struct{}),
	}
}

// send queues data without blocking. A client whose queue is full is closed.
func (c *client) send(data []byte) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.out <- data:
	default:
		c.log.Warn("send buffer full, dropping client")
		c.close()
	}
}

func (c *client) sendJSON(msg Outbound) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("failed to encode message", zap.Error(err))
		return
	}
	c.send(data)
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *client) readPump(ctx context.Context) {
	// A drag interrupted by a disconnect still commits where it was left.
	defer func() {
		if err := c.ctrl.PointerUp(context.WithoutCancel(ctx)); err != nil {
			c.log.Warn("commit on disconnect failed", zap.Error(err))
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Info("websocket read error", zap.Error(err))
			}
			return
		}

		var in Inbound
		if err := json.Unmarshal(message, &in); err != nil {
			c.sendJSON(errorMessage("malformed message"))
			continue
		}
		c.handle(ctx, in)
	}
}

func (c *client) handle(ctx context.Context, in Inbound) {
	switch in.Type {
	case TypePointerDown:
		if !c.ctrl.PointerDown(in.ObjectID) {
			c.sendJSON(errorMessage("object not found"))
			return
		}
		c.sendJSON(selectionMessage(c.ctrl.Selected()))
		c.sendJSON(orbitMessage(c.ctrl.OrbitEnabled()))

	case TypePointerMove:
		if in.Ray == nil {
			c.sendJSON(errorMessage("pointer_move requires a ray"))
			return
		}
		// The new position reaches every client as a move event.
		c.ctrl.PointerMove(*in.Ray)

	case TypePointerUp:
		wasDragging := c.ctrl.State() == editor.Dragging
		if err := c.ctrl.PointerUp(ctx); err != nil {
			c.log.Error("drag commit failed", zap.Error(err))
			c.sendJSON(errorMessage("failed to save position"))
		}
		if wasDragging {
			c.sendJSON(orbitMessage(c.ctrl.OrbitEnabled()))
		}

	case TypeFloorClick:
		c.ctrl.FloorClick()
		c.sendJSON(selectionMessage(c.ctrl.Selected()))

	case TypeFloorDoubleClick:
		if in.Ray == nil {
			c.sendJSON(errorMessage("floor_double_click requires a ray"))
			return
		}
		if pos, ok := c.ctrl.FloorDoubleClick(*in.Ray); ok {
			c.sendJSON(placementMessage(pos))
		}

	default:
		c.sendJSON(errorMessage("unknown message type " + in.Type))
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
