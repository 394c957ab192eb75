package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func newTestHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(HubOptions{SendBuffer: 8}, zap.NewNop())
	srv := httptest.NewServer(hub)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("拨号失败: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	// 首帧必为 connected
	f := readFrame(t, conn)
	if f.Event != EventConnected {
		t.Fatalf("首帧期望 connected，实际 %s", f.Event)
	}
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("读取消息失败: %v", err)
	}
	return f
}

func TestHub_EmitReachesSubscriber(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv, "")

	if hub.ClientCount() != 1 {
		t.Fatalf("期望 1 个客户端，实际 %d", hub.ClientCount())
	}

	hub.Emit(EventScheduleUpdate, map[string]string{"date": "2024-01-15"})

	f := readFrame(t, conn)
	if f.Event != EventScheduleUpdate {
		t.Fatalf("期望 schedule:update，实际 %s", f.Event)
	}
	var data map[string]string
	_ = json.Unmarshal(f.Data, &data)
	if data["date"] != "2024-01-15" {
		t.Errorf("payload 错误: %s", f.Data)
	}
	if f.At.IsZero() {
		t.Error("at 不应为空")
	}
}

func TestHub_QueryPreselectsEvents(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv, "?events=task:update")

	hub.Emit(EventScheduleUpdate, map[string]string{"date": "2024-01-15"})
	hub.Emit(EventTaskUpdate, map[string]string{"action": "created"})

	f := readFrame(t, conn)
	if f.Event != EventTaskUpdate {
		t.Errorf("未订阅的事件不应送达，收到 %s", f.Event)
	}
}

func TestHub_SubscribeAction(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv, "?events=task:update")

	if err := conn.WriteJSON(map[string]interface{}{
		"action": "subscribe",
		"events": []string{EventSystemMidnight},
	}); err != nil {
		t.Fatal(err)
	}
	ack := readFrame(t, conn)
	if ack.Event != EventSubscribed {
		t.Fatalf("期望订阅确认，实际 %s", ack.Event)
	}

	hub.Emit(EventSystemMidnight, map[string]string{"at": "x"})
	if f := readFrame(t, conn); f.Event != EventSystemMidnight {
		t.Errorf("期望 system:midnight，实际 %s", f.Event)
	}

	_ = conn.WriteJSON(map[string]interface{}{"action": "unsubscribe", "events": []string{EventSystemMidnight}})
	readFrame(t, conn) // ack

	hub.Emit(EventSystemMidnight, map[string]string{"at": "y"})
	hub.Emit(EventTaskUpdate, map[string]string{"action": "deleted"})
	if f := readFrame(t, conn); f.Event != EventTaskUpdate {
		t.Errorf("取消订阅后不应再收到 system:midnight，收到 %s", f.Event)
	}
}

func TestHub_InvalidFrameGetsError(t *testing.T) {
	_, srv := newTestHub(t)
	conn := dial(t, srv, "")

	_ = conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	if f := readFrame(t, conn); f.Event != EventError {
		t.Errorf("期望 error 帧，实际 %s", f.Event)
	}
}

func TestHub_EmitWithoutClients(t *testing.T) {
	hub := NewHub(HubOptions{}, zap.NewNop())

	done := make(chan struct{})
	go func() {
		hub.Emit(EventScheduleUpdate, map[string]string{"date": "2024-01-15"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("无客户端时 Emit 不应阻塞")
	}
}

func TestHub_SlowClientDropped(t *testing.T) {
	hub := NewHub(HubOptions{SendBuffer: 1}, zap.NewNop())
	slow := newClient("slow", hub, nil, 1, nil)
	if !hub.register(slow) {
		t.Fatal("注册失败")
	}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			hub.Emit(EventTaskUpdate, i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("慢客户端不应阻塞 Emit")
	}

	if hub.ClientCount() != 0 {
		t.Errorf("队列溢出的客户端应被移除，剩余 %d", hub.ClientCount())
	}
}

func TestHub_UnmarshalablePayloadIgnored(t *testing.T) {
	hub := NewHub(HubOptions{}, zap.NewNop())
	// chan 无法 JSON 序列化，Emit 只记录日志
	hub.Emit(EventTaskUpdate, make(chan int))
}

func TestHub_CloseRejectsNewConnections(t *testing.T) {
	hub, srv := newTestHub(t)
	hub.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("关闭后不应接受新连接")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("期望 503，实际 %v", resp)
	}
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://display.example/"})

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if !check(r) {
		t.Error("无 Origin 头应放行")
	}
	r.Header.Set("Origin", "http://display.example")
	if !check(r) {
		t.Error("白名单内的 Origin 应放行")
	}
	r.Header.Set("Origin", "http://evil.example")
	if check(r) {
		t.Error("白名单外的 Origin 应拒绝")
	}
}

// ── Relay ──

type recordingRelay struct {
	mu   sync.Mutex
	got  []Message
	err  error
	sent chan struct{}
}

func (r *recordingRelay) Name() string { return "recording" }

func (r *recordingRelay) Publish(_ context.Context, msg Message) error {
	r.mu.Lock()
	r.got = append(r.got, msg)
	r.mu.Unlock()
	r.sent <- struct{}{}
	return r.err
}

func (r *recordingRelay) Close() error { return nil }

func TestHub_RelayReceivesEmits(t *testing.T) {
	hub := NewHub(HubOptions{}, zap.NewNop())
	relay := &recordingRelay{sent: make(chan struct{}, 1), err: errors.New("broker down")}
	hub.AddRelay(relay)

	hub.Emit(EventAnnouncementUpdate, map[string]interface{}{"id": "a1", "deleted": true})

	select {
	case <-relay.sent:
	case <-time.After(time.Second):
		t.Fatal("转发器未收到消息")
	}
	relay.mu.Lock()
	defer relay.mu.Unlock()
	if relay.got[0].Origin != hub.Origin() || relay.got[0].Event != EventAnnouncementUpdate {
		t.Errorf("转发消息错误: %+v", relay.got[0])
	}
}

func TestHub_DeliverSkipsOwnOrigin(t *testing.T) {
	hub, srv := newTestHub(t)
	conn := dial(t, srv, "")

	hub.Deliver(Message{Origin: hub.Origin(), Event: EventTaskUpdate, Data: json.RawMessage(`{"n":1}`)})
	hub.Deliver(Message{Origin: "other", Event: EventTaskUpdate, Data: json.RawMessage(`{"n":2}`)})

	f := readFrame(t, conn)
	if string(f.Data) != `{"n":2}` {
		t.Errorf("本实例消息应被忽略，收到 %s", f.Data)
	}
}
