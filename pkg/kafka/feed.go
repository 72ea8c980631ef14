package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"

	"github.com/Goden-Gun/vis-server/pkg/protocol"

	log "github.com/Goden-Gun/vis-server/pkg/logger"
)

// SignalUpdate is the wire form of one feed message.
type SignalUpdate struct {
	Path      string          `json:"path"`
	Value     json.RawMessage `json:"value"`
	Timestamp uint64          `json:"timestamp"`
}

// Sink receives decoded feed updates. *signal.Tree satisfies it.
type Sink interface {
	Ingest(path string, data json.RawMessage, timestamp uint64) error
}

// Feed consumes the vehicle signal topic into a Sink.
type Feed struct {
	manager *Manager
	topic   string
	group   string
	sink    Sink
}

// NewFeed binds a consumer for topic/group to sink.
func NewFeed(manager *Manager, topic, group string, sink Sink) *Feed {
	return &Feed{manager: manager, topic: topic, group: group, sink: sink}
}

// Run consumes until ctx is cancelled. Rebalances restart the claim loop;
// transient errors are logged and retried.
func (f *Feed) Run(ctx context.Context) error {
	cg, err := f.manager.NewConsumerGroup(f.group)
	if err != nil {
		return err
	}
	defer cg.Close()

	go func() {
		for err := range cg.Errors() {
			log.WithError(err).Warn("signal feed consumer error")
		}
	}()

	handler := &feedHandler{feed: f}
	for {
		if err := cg.Consume(ctx, []string{f.topic}, handler); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.WithError(err).Warn("signal feed consume session ended")
			time.Sleep(time.Second)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

type feedHandler struct {
	feed *Feed
}

func (h *feedHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *feedHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *feedHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		start := time.Now()
		err := h.feed.handle(msg.Value)
		h.feed.manager.ObserveConsume(msg.Topic, h.feed.group, "signal_update", time.Since(start), err)
		if err != nil {
			log.WithError(err).WithField("topic", msg.Topic).Warn("signal update dropped")
		}
		session.MarkMessage(msg, "")
	}
	return nil
}

func (f *Feed) handle(raw []byte) error {
	var update SignalUpdate
	if err := json.Unmarshal(raw, &update); err != nil {
		return err
	}
	if update.Timestamp == 0 {
		update.Timestamp = protocol.UnixTimestampMS()
	}
	return f.sink.Ingest(update.Path, update.Value, update.Timestamp)
}

// PublishSet mirrors an accepted client set onto the egress topic, keyed by
// path so per-signal ordering is preserved.
func (f *Feed) PublishSet(ctx context.Context, path string, value json.RawMessage, timestamp uint64) error {
	payload, err := json.Marshal(SignalUpdate{Path: path, Value: value, Timestamp: timestamp})
	if err != nil {
		return err
	}
	return f.manager.Publish(ctx, "", []byte(path), payload)
}
