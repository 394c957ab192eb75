// Package realtime 实现进程内的实时广播通道。
//
// 语义为尽力而为、至多一次：不做确认、不做重放、不做持久化。
// Emit 永远不会阻塞或向调用方返回错误。
package realtime

import (
	"encoding/json"
	"time"
)

// 事件名称
const (
	EventScheduleUpdate     = "schedule:update"
	EventTaskUpdate         = "task:update"
	EventAnnouncementUpdate = "announcement:update"
	EventSystemMidnight     = "system:midnight"

	// 企业模块
	EventBookingUpdate = "booking:update"
	EventVisitorUpdate = "visitor:update"

	// 连接生命周期（仅发给单个客户端）
	EventConnected  = "connected"
	EventSubscribed = "subscribed"
	EventError      = "error"
)

// WildcardEvent 订阅全部事件
const WildcardEvent = "*"

// Emitter 广播出口，由业务服务持有
type Emitter interface {
	Emit(event string, payload interface{})
}

// Nop 不做任何事的 Emitter（测试或关闭实时通道时使用）
type Nop struct{}

func (Nop) Emit(string, interface{}) {}

// Frame 下发给 WebSocket 客户端的消息帧
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	At    time.Time       `json:"at"`
}

// Message 实例间转发的消息，Origin 用于丢弃自己发出的回环消息
type Message struct {
	Origin string          `json:"origin"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data"`
	At     time.Time       `json:"at"`
}

// Frame 转为客户端消息帧
func (m Message) Frame() Frame {
	return Frame{Event: m.Event, Data: m.Data, At: m.At}
}

// clientAction 客户端上行控制帧
type clientAction struct {
	Action string   `json:"action"` // subscribe | unsubscribe
	Events []string `json:"events"`
}
