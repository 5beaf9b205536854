package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"province-map/internal/logger"
	"province-map/internal/metrics"
	"province-map/internal/render"
	"province-map/internal/viewport"
)

const (
	wsReadLimit    = 4096
	wsWriteTimeout = 10 * time.Second
)

// message：服务端推送的消息
type message struct {
	Type  string       `json:"type"`
	ID    string       `json:"id,omitempty"`
	View  *render.View `json:"view,omitempty"`
	Error string       `json:"error,omitempty"`
}

type sessionHandler struct {
	d        Deps
	upgrader websocket.Upgrader
}

func newSessionHandler(d Deps) *sessionHandler {
	h := &sessionHandler{d: d}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 16 * 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin：未配置来源时只接受同源（或无 Origin 头的非浏览器客户端）
func (h *sessionHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range h.d.Origins {
		if o == "*" || o == origin {
			return true
		}
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// 文档注释：交互会话
// 背景：每个连接独占一个控制器，只由本 goroutine 按到达顺序逐个处理事件，控制器无需加锁；
// 读取在单独的 goroutine 中进行，经通道交给会话循环。
// 约束：连接建立后先推送一次视图；之后在事件改变了可见状态时推送，
// 以及连接时几何尚在加载、加载完成后主动推送一次。非法事件回复 error 消息，会话继续。
func (h *sessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.L().Debug("ws_upgrade_error", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsReadLimit)

	id := uuid.NewString()
	l := logger.With("ws").With("session", id)
	metrics.WSSessions.Inc()
	defer metrics.WSSessions.Dec()
	t0 := time.Now()
	n := 0
	l.Info("ws_session_begin", "remote", r.RemoteAddr)
	defer func() {
		l.Info("ws_session_end", "events", n, "ms", time.Since(t0).Milliseconds())
	}()

	c := viewport.New(h.d.Limits)
	ctx := r.Context()
	v := h.d.view(ctx, c)
	if err := send(conn, message{Type: "view", ID: id, View: &v}); err != nil {
		return
	}
	var ready <-chan struct{}
	if v.Loading {
		ready = h.d.Source.Ready()
	}

	stop := make(chan struct{})
	defer close(stop)
	events, readErr := readEvents(conn, stop)
	for {
		select {
		case <-ready:
			ready = nil
			v := h.d.view(ctx, c)
			l.Debug("ws_geometry_ready_push")
			if err := send(conn, message{Type: "view", View: &v}); err != nil {
				l.Debug("ws_write_error", "err", err)
				return
			}
		case err := <-readErr:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				l.Debug("ws_read_error", "err", err)
			}
			return
		case ev := <-events:
			n++
			changed, err := c.Dispatch(ev)
			label := ev.Type
			if errors.Is(err, viewport.ErrUnknownEvent) {
				label = "unknown"
			}
			metrics.EventsTotal.WithLabelValues(label, strconv.FormatBool(changed)).Inc()
			l.Debug("ws_event", "type", ev.Type, "changed", changed)
			if err != nil {
				if err := send(conn, message{Type: "error", Error: err.Error()}); err != nil {
					return
				}
				continue
			}
			if !changed {
				continue
			}
			v := h.d.view(ctx, c)
			if err := send(conn, message{Type: "view", View: &v}); err != nil {
				l.Debug("ws_write_error", "err", err)
				return
			}
		}
	}
}

// readEvents：读取循环；读错误（含连接关闭）经 errc 交回一次后退出，stop 关闭时放弃投递
func readEvents(conn *websocket.Conn, stop <-chan struct{}) (<-chan viewport.Event, <-chan error) {
	out := make(chan viewport.Event)
	errc := make(chan error, 1)
	go func() {
		for {
			var ev viewport.Event
			if err := conn.ReadJSON(&ev); err != nil {
				errc <- err
				return
			}
			select {
			case out <- ev:
			case <-stop:
				return
			}
		}
	}()
	return out, errc
}

func send(conn *websocket.Conn, m message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(m)
}
