package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
)

type idleLog struct {
	mu  sync.Mutex
	ids []string
}

func (l *idleLog) add(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids = append(l.ids, id)
}

func (l *idleLog) get() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.ids...)
}

func TestIdleWatch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clock := quartz.NewMock(t)
	var expired idleLog
	w := newIdleWatch(clock, time.Minute, expired.add)

	w.Touch("a")
	w.Touch("b")
	assert.Equal(t, 2, w.Watching())

	clock.Advance(40 * time.Second).MustWait(ctx)
	w.Touch("a")
	assert.Empty(t, expired.get())

	clock.Advance(20 * time.Second).MustWait(ctx)
	assert.Equal(t, []string{"b"}, expired.get(), "b was silent for the full timeout")
	assert.Equal(t, 1, w.Watching())

	w.Forget("a")
	clock.Advance(time.Minute).MustWait(ctx)
	assert.Equal(t, []string{"b"}, expired.get(), "forgotten participants never expire")
	assert.Zero(t, w.Watching())
}

func TestIdleWatchDisabled(t *testing.T) {
	clock := quartz.NewMock(t)
	var expired idleLog
	w := newIdleWatch(clock, 0, expired.add)

	w.Touch("a")
	assert.Zero(t, w.Watching())
}
