package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// ── Redis ──

type fakePubSub struct {
	handler   func([]byte)
	published [][]byte
	closed    bool
}

func (f *fakePubSub) Publish(_ context.Context, _ string, payload []byte) error {
	f.published = append(f.published, payload)
	return nil
}

func (f *fakePubSub) Subscribe(_ context.Context, _ string, handler func([]byte)) (func() error, error) {
	f.handler = handler
	return func() error { f.closed = true; return nil }, nil
}

func TestRedisRelay_PublishAndDeliver(t *testing.T) {
	hub := NewHub(HubOptions{SendBuffer: 4}, zap.NewNop())
	ps := &fakePubSub{}
	relay, err := NewRedisRelay(context.Background(), ps, "liveboard:events", hub, zap.NewNop())
	if err != nil {
		t.Fatalf("NewRedisRelay 失败: %v", err)
	}

	msg := Message{Origin: "peer", Event: EventTaskUpdate, Data: json.RawMessage(`{}`), At: time.Now()}
	if err := relay.Publish(context.Background(), msg); err != nil {
		t.Fatal(err)
	}
	if len(ps.published) != 1 {
		t.Fatalf("期望发布 1 条，实际 %d", len(ps.published))
	}

	// 其他实例的消息投递给本地客户端
	c := newClient("c1", hub, nil, 4, nil)
	hub.register(c)
	ps.handler(ps.published[0])

	select {
	case b := <-c.send:
		var f Frame
		_ = json.Unmarshal(b, &f)
		if f.Event != EventTaskUpdate {
			t.Errorf("期望 task:update，实际 %s", f.Event)
		}
	default:
		t.Fatal("客户端未收到转发消息")
	}

	// 无法解析的消息被忽略
	ps.handler([]byte("garbage"))

	_ = relay.Close()
	if !ps.closed {
		t.Error("Close 应取消订阅")
	}
}

// ── MQTT ──

type fakeToken struct {
	done chan struct{}
	err  error
}

func newDoneToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{}          { return t.done }
func (t *fakeToken) Error() error                   { return t.err }

type fakeMQTT struct {
	mqtt.Client // 未覆盖的方法不会被调用
	topics      []string
	payloads    [][]byte
	token       mqtt.Token
	disconnects int
}

func (f *fakeMQTT) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	f.topics = append(f.topics, topic)
	f.payloads = append(f.payloads, payload.([]byte))
	return f.token
}

func (f *fakeMQTT) Disconnect(uint) { f.disconnects++ }

func TestMQTTRelay_Publish(t *testing.T) {
	client := &fakeMQTT{token: newDoneToken(nil)}
	relay := newMQTTRelay(client, "campus/displays/", zap.NewNop())

	msg := Message{Origin: "x", Event: EventScheduleUpdate, Data: json.RawMessage(`{"date":"2024-01-15"}`), At: time.Now()}
	if err := relay.Publish(context.Background(), msg); err != nil {
		t.Fatalf("Publish 失败: %v", err)
	}

	if client.topics[0] != "campus/displays/schedule:update" {
		t.Errorf("主题错误: %s", client.topics[0])
	}
	var f map[string]interface{}
	_ = json.Unmarshal(client.payloads[0], &f)
	if _, ok := f["origin"]; ok {
		t.Error("下发给终端的帧不应包含 origin")
	}

	_ = relay.Close()
	if client.disconnects != 1 {
		t.Error("Close 应断开连接")
	}
}

func TestMQTTRelay_PublishTimeout(t *testing.T) {
	client := &fakeMQTT{token: &fakeToken{done: make(chan struct{})}}
	relay := newMQTTRelay(client, "", zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := relay.Publish(ctx, Message{Event: EventTaskUpdate}); err == nil {
		t.Error("Broker 未确认时应返回超时错误")
	}
	if relay.Topic("x") != "liveboard/x" {
		t.Errorf("默认前缀错误: %s", relay.Topic("x"))
	}
}
