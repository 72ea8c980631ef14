package subscription

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/Goden-Gun/vis-server/pkg/envelope"
	log "github.com/Goden-Gun/vis-server/pkg/logger"
	"github.com/Goden-Gun/vis-server/pkg/protocol"
)

// ErrUnknownSubscription classifies an unsubscribe against an id this
// registry never issued (or already dropped).
var ErrUnknownSubscription = errors.New("subscription: unknown subscription id")

// Writer delivers wire messages to the subscriber's connection.
// *websocket.Conn satisfies it; tests substitute their own.
type Writer interface {
	WriteJSON(v any) error
}

type entry struct {
	id      protocol.SubscriptionID
	path    string
	filters *protocol.Filters

	lastSent  time.Time
	lastValue *float64
}

// Registry tracks the active subscriptions of one client session and pushes
// notifications for matching signal changes.
type Registry struct {
	writer Writer

	mu   sync.Mutex
	subs map[string]*entry
}

func NewRegistry(w Writer) *Registry {
	return &Registry{writer: w, subs: make(map[string]*entry)}
}

// Subscribe registers a subscription and returns its server-assigned id.
func (r *Registry) Subscribe(path string, filters *protocol.Filters) protocol.SubscriptionID {
	id := protocol.NewSubscriptionID()
	r.mu.Lock()
	r.subs[id.String()] = &entry{id: id, path: path, filters: filters}
	r.mu.Unlock()
	return id
}

// Unsubscribe drops one subscription.
func (r *Registry) Unsubscribe(id protocol.SubscriptionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := id.String()
	if _, ok := r.subs[key]; !ok {
		return ErrUnknownSubscription
	}
	delete(r.subs, key)
	return nil
}

// UnsubscribeAll drops every subscription and reports how many were active.
func (r *Registry) UnsubscribeAll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.subs)
	r.subs = make(map[string]*entry)
	return n
}

// Len reports the number of active subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Notify pushes the changed value to every subscription matching the path
// whose filters accept it, returning the number of notifications written.
// It runs on the signal writer's goroutine and never blocks on anything but
// the connection write.
func (r *Registry) Notify(path string, data json.RawMessage, timestamp uint64) int {
	now := time.Now()
	r.mu.Lock()
	matched := make([]*entry, 0, 2)
	for _, e := range r.subs {
		if e.path != path {
			continue
		}
		if accept(e, data, now) {
			matched = append(matched, e)
		}
	}
	r.mu.Unlock()

	sent := 0
	for _, e := range matched {
		note := protocol.NewSubscriptionNotification(e.id, data)
		if err := r.writer.WriteJSON(note); err != nil {
			log.WithError(err).WithField("path", path).Warn("notification write failed")
			// The originating action is gone by the time a write fails, so
			// fall back to the generic subscriptionNotification error with
			// the sentinel zero subscription id.
			_ = r.writer.WriteJSON(envelope.FromIOError(err))
			continue
		}
		sent++
	}
	return sent
}

// accept applies the subscription's filters and updates its delivery state.
func accept(e *entry, data json.RawMessage, now time.Time) bool {
	f := e.filters
	if f.Empty() {
		e.lastSent = now
		return true
	}
	if f.Interval > 0 && !e.lastSent.IsZero() {
		if now.Sub(e.lastSent) < time.Duration(f.Interval)*time.Millisecond {
			return false
		}
	}
	var num float64
	numeric := json.Unmarshal(data, &num) == nil
	if f.Range != nil && numeric {
		if f.Range.Above != nil && num <= *f.Range.Above {
			return false
		}
		if f.Range.Below != nil && num >= *f.Range.Below {
			return false
		}
	}
	if f.MinChange != nil && numeric && e.lastValue != nil {
		delta := num - *e.lastValue
		if delta < 0 {
			delta = -delta
		}
		if delta < *f.MinChange {
			return false
		}
	}
	e.lastSent = now
	if numeric {
		v := num
		e.lastValue = &v
	}
	return true
}
