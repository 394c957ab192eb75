package service

import (
	"sync"
	"time"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository"
	"github.com/Afnanpathan2004/livedisplay-sub001/internal/repository/memory"
)

// ── 测试辅助 ──

type emitted struct {
	event   string
	payload interface{}
}

// recordingEmitter 记录所有广播，供断言使用
type recordingEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (r *recordingEmitter) Emit(event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, emitted{event: event, payload: payload})
}

func (r *recordingEmitter) byEvent(event string) []interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []interface{}
	for _, e := range r.events {
		if e.event == event {
			out = append(out, e.payload)
		}
	}
	return out
}

func (r *recordingEmitter) reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

func newTestRepo() *repository.Repository {
	return memory.NewRepository()
}

// fixedClock 固定时间，便于断言时间戳与「今天」
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
