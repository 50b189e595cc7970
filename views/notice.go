// Package views holds the portal's view controllers. A controller keeps the
// re-fetchable state of one page, validates input before touching the store,
// and collects user-facing notices instead of returning errors.
package views

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Redirect asks the client to navigate, optionally after a delay.
type Redirect struct {
	To      string `json:"to"`
	DelayMS int    `json:"delay_ms,omitempty"`
}

type noticeBoard struct {
	mu   sync.Mutex
	list []Notice
}

func (b *noticeBoard) add(level Level, msg string) {
	b.mu.Lock()
	b.list = append(b.list, Notice{Level: level, Message: msg})
	b.mu.Unlock()
}

func (b *noticeBoard) success(msg string) { b.add(LevelSuccess, msg) }
func (b *noticeBoard) error(msg string)   { b.add(LevelError, msg) }
func (b *noticeBoard) info(msg string)    { b.add(LevelInfo, msg) }

// drain returns and clears the collected notices.
func (b *noticeBoard) drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.list
	b.list = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

var validate = validator.New()
