// Package signal is the WebSocket adapter: it upgrades connections, pumps
// frames, and routes the inbound command catalog into the intercom core.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/antirom-design/funkhaus/internal/app"
	"github.com/antirom-design/funkhaus/internal/config"
	"github.com/antirom-design/funkhaus/internal/core"
	"github.com/antirom-design/funkhaus/internal/domain"
	"github.com/antirom-design/funkhaus/internal/protocol"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Intercom *app.Intercom
	Cfg      *config.Config
	limiter  *JoinRateLimiter
}

func NewController(intercom *app.Intercom, cfg *config.Config) *Controller {
	return &Controller{
		Intercom: intercom,
		Cfg:      cfg,
		limiter:  NewJoinRateLimiter(joinLimit, joinWindow),
	}
}

// WsConn is one client's transport handle. It satisfies
// core.SignalConnection; the adapter owns its lifecycle.
type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
	sid    domain.SessionID // bound on successful join
}

func (c *WsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

func (c *WsConn) bind(sid domain.SessionID) {
	c.mu.Lock()
	c.sid = sid
	c.mu.Unlock()
}

func (c *WsConn) sessionID() domain.SessionID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sid
}

func (ctl *Controller) sendJSON(c *WsConn, frame core.Frame) {
	if frame == nil {
		return
	}
	_ = c.TrySend(frame)
}

func (ctl *Controller) sendError(c *WsConn, err error) {
	ctl.sendJSON(c, protocol.ErrorFrame(err.Error()))
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleIntercom upgrades the request and starts the read/write pumps. The
// session only enters the registry once a join command arrives.
func (ctl *Controller) HandleIntercom(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.Cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.Cfg.ReadLimit)
	}

	conn := &WsConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	ctx, cancel := context.WithCancel(ctx)
	log.Info().Str("module", "signal").Str("remote", ws.RemoteAddr().String()).Msg("new WS connection")

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, conn)
}
