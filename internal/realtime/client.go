package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client 单个 WebSocket 连接
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	events map[string]struct{}

	closeOnce sync.Once
}

func newClient(id string, hub *Hub, conn *websocket.Conn, buffer int, events []string) *Client {
	c := &Client{
		id:     id,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, buffer),
		events: make(map[string]struct{}),
	}
	if len(events) == 0 {
		events = []string{WildcardEvent}
	}
	c.subscribe(events)
	return c
}

// ID 客户端标识
func (c *Client) ID() string { return c.id }

// Wants 是否订阅了该事件
func (c *Client) Wants(event string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if _, ok := c.events[WildcardEvent]; ok {
		return true
	}
	_, ok := c.events[event]
	return ok
}

func (c *Client) subscribe(events []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range events {
		if e != "" {
			c.events[e] = struct{}{}
		}
	}
}

func (c *Client) unsubscribe(events []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range events {
		delete(c.events, e)
	}
}

// Subscriptions 当前订阅列表
func (c *Client) Subscriptions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.events))
	for e := range c.events {
		out = append(out, e)
	}
	return out
}

// enqueue 非阻塞投递；队列已满返回 false
func (c *Client) enqueue(b []byte) (ok bool) {
	defer func() {
		// send 已关闭
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// readPump 处理上行控制帧，连接断开时从 Hub 注销
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("WebSocket 异常断开", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}

		var act clientAction
		if err := json.Unmarshal(data, &act); err != nil {
			c.reply(EventError, map[string]string{"message": "invalid frame"})
			continue
		}
		switch act.Action {
		case "subscribe":
			c.subscribe(act.Events)
		case "unsubscribe":
			c.unsubscribe(act.Events)
		default:
			c.reply(EventError, map[string]string{"message": "unknown action: " + act.Action})
			continue
		}
		c.reply(EventSubscribed, map[string][]string{"events": c.Subscriptions()})
	}
}

// writePump 串行写出消息并定时发送 Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// reply 向单个客户端发送生命周期消息
func (c *Client) reply(event string, payload interface{}) {
	b, err := encodeFrame(event, payload, c.hub.now())
	if err != nil {
		return
	}
	if !c.enqueue(b) {
		c.hub.drop(c, "发送队列已满")
	}
}
