package main

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/hoprope/ecs"
	"github.com/milk9111/hoprope/rope"
)

// maxRecentEvents bounds the rope events kept for GET /events.
const maxRecentEvents = 64

type ropeEventView struct {
	Tick uint64       `json:"tick"`
	Type string       `json:"type"`
	From ecs.EntityID `json:"from"`
	To   ecs.EntityID `json:"to"`
}

type eventStats struct {
	Attached uint64          `json:"attached"`
	Detached uint64          `json:"detached"`
	Added    uint64          `json:"entities_added"`
	Removed  uint64          `json:"entities_removed"`
	Recent   []ropeEventView `json:"recent"`
}

// eventLog is the last system of a tick. It reads the world events before
// the world flushes them, logs rope events and keeps counters for the API.
type eventLog struct {
	logger *log.Logger
	stats  eventStats
}

func newEventLog(logger *log.Logger) *eventLog {
	return &eventLog{logger: logger, stats: eventStats{Recent: []ropeEventView{}}}
}

func (l *eventLog) Update(w *ecs.World) {
	for _, evt := range w.Events().Peek() {
		switch evt.Type {
		case ecs.EventEntityAdded:
			l.stats.Added++
		case ecs.EventEntityRemoved:
			l.stats.Removed++
		case rope.EventRopeAttached, rope.EventRopeDetached:
			re, ok := evt.Data.(rope.RopeEvent)
			if !ok {
				continue
			}
			if evt.Type == rope.EventRopeAttached {
				l.stats.Attached++
			} else {
				l.stats.Detached++
			}
			l.record(ropeEventView{Tick: w.Ticks(), Type: evt.Type, From: re.From, To: re.To})
			l.logger.Info(evt.Type, "from", re.From, "to", re.To, "tick", w.Ticks())
		}
	}
}

func (l *eventLog) record(v ropeEventView) {
	l.stats.Recent = append(l.stats.Recent, v)
	if n := len(l.stats.Recent); n > maxRecentEvents {
		l.stats.Recent = append([]ropeEventView(nil), l.stats.Recent[n-maxRecentEvents:]...)
	}
}

// snapshot copies the counters; callers hold the sim lock.
func (l *eventLog) snapshot() eventStats {
	out := l.stats
	out.Recent = append([]ropeEventView{}, l.stats.Recent...)
	return out
}
