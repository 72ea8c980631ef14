// Package kafka connects the VIS server to the vehicle signal feed. A
// Manager owns one shared sync producer for egress and hands out consumer
// groups for signal ingestion.
package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/xdg-go/scram"
	"go.opentelemetry.io/otel"

	"github.com/Goden-Gun/vis-server/pkg/config"
)

// PublishObserver observes publish latency and errors. It is metrics-backend
// agnostic so the binary can map it onto its own collectors.
type PublishObserver interface {
	ObservePublish(topic string, duration time.Duration, err error)
}

// ConsumeObserver observes message processing latency and errors. "Consume"
// means a message was claimed and a processing attempt finished.
type ConsumeObserver interface {
	ObserveConsume(topic, group, eventType string, duration time.Duration, err error)
}

// Manager manages the shared producer and a base sarama config for consumers.
type Manager struct {
	cfg      config.KafkaConfig
	producer sarama.SyncProducer
	baseConf *sarama.Config

	observerMu      sync.RWMutex
	publishObserver PublishObserver
	consumeObserver ConsumeObserver

	closeOnce sync.Once
}

// headerCarrier implements propagation.TextMapCarrier over Kafka record headers.
type headerCarrier []sarama.RecordHeader

func (c *headerCarrier) Get(key string) string {
	for _, h := range *c {
		if string(h.Key) == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	*c = append(*c, sarama.RecordHeader{Key: []byte(key), Value: []byte(value)})
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(*c))
	for _, h := range *c {
		keys = append(keys, string(h.Key))
	}
	return keys
}

// NewManager dials the brokers and builds the shared producer.
func NewManager(cfg config.KafkaConfig) (*Manager, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka brokers empty")
	}
	base := sarama.NewConfig()
	base.Version = sarama.V2_1_0_0
	if cfg.ClientID != "" {
		base.ClientID = cfg.ClientID
	}

	base.Producer.Return.Successes = true
	base.Producer.Retry.Max = 3
	base.Producer.RequiredAcks = sarama.WaitForAll

	if cfg.TLSEnabled {
		base.Net.TLS.Enable = true
		base.Net.TLS.Config = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	if cfg.Username != "" {
		base.Net.SASL.Enable = true
		base.Net.SASL.User = cfg.Username
		base.Net.SASL.Password = cfg.Password
		switch strings.ToUpper(strings.TrimSpace(cfg.SASLMechanism)) {
		case "SCRAM-SHA-512":
			base.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA512
			base.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
				return newSCRAMClient(scram.SHA512)
			}
		case "SCRAM-SHA-256":
			base.Net.SASL.Mechanism = sarama.SASLTypeSCRAMSHA256
			base.Net.SASL.SCRAMClientGeneratorFunc = func() sarama.SCRAMClient {
				return newSCRAMClient(scram.SHA256)
			}
		default:
			base.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		}
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, base)
	if err != nil {
		return nil, err
	}
	return &Manager{cfg: cfg, producer: producer, baseConf: base}, nil
}

// SetPublishObserver installs or replaces the publish observer.
func (m *Manager) SetPublishObserver(observer PublishObserver) {
	if m == nil {
		return
	}
	m.observerMu.Lock()
	m.publishObserver = observer
	m.observerMu.Unlock()
}

// SetConsumeObserver installs or replaces the consume observer.
func (m *Manager) SetConsumeObserver(observer ConsumeObserver) {
	if m == nil {
		return
	}
	m.observerMu.Lock()
	m.consumeObserver = observer
	m.observerMu.Unlock()
}

func (m *Manager) publishObserverSnapshot() PublishObserver {
	if m == nil {
		return nil
	}
	m.observerMu.RLock()
	observer := m.publishObserver
	m.observerMu.RUnlock()
	return observer
}

func (m *Manager) consumeObserverSnapshot() ConsumeObserver {
	if m == nil {
		return nil
	}
	m.observerMu.RLock()
	observer := m.consumeObserver
	m.observerMu.RUnlock()
	return observer
}

// Publish sends a message to the given topic, falling back to the configured
// egress topic. Trace context is injected into the record headers.
func (m *Manager) Publish(ctx context.Context, topic string, key, value []byte) (err error) {
	if m == nil {
		return errors.New("kafka manager nil")
	}
	start := time.Now()
	defer func() {
		if observer := m.publishObserverSnapshot(); observer != nil {
			observer.ObservePublish(topic, time.Since(start), err)
		}
	}()
	if topic == "" {
		topic = m.cfg.EgressTopic
	}
	if topic == "" {
		return errors.New("kafka topic empty")
	}

	var headers headerCarrier
	otel.GetTextMapPropagator().Inject(ctx, &headers)

	msg := &sarama.ProducerMessage{Topic: topic}
	if len(key) > 0 {
		msg.Key = sarama.ByteEncoder(key)
	}
	if len(value) > 0 {
		msg.Value = sarama.ByteEncoder(value)
	}
	for _, h := range headers {
		msg.Headers = append(msg.Headers, h)
	}

	select {
	case <-ctx.Done():
		err = ctx.Err()
		return err
	default:
	}
	_, _, err = m.producer.SendMessage(msg)
	return err
}

// ObserveConsume triggers the consume observer if one is installed.
func (m *Manager) ObserveConsume(topic, group, eventType string, duration time.Duration, err error) {
	if observer := m.consumeObserverSnapshot(); observer != nil {
		observer.ObserveConsume(topic, group, eventType, duration, err)
	}
}

// NewConsumerGroup returns a consumer group sharing the base config.
func (m *Manager) NewConsumerGroup(group string) (sarama.ConsumerGroup, error) {
	if m == nil {
		return nil, errors.New("kafka manager nil")
	}
	if group == "" {
		return nil, errors.New("kafka consumer group empty")
	}
	cfg := *m.baseConf
	cfg.Consumer.Return.Errors = true
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	return sarama.NewConsumerGroup(m.cfg.Brokers, group, &cfg)
}

// Close shuts down the producer.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	var err error
	m.closeOnce.Do(func() {
		if m.producer != nil {
			err = m.producer.Close()
		}
	})
	return err
}

type scramClient struct {
	*scram.Client
	*scram.ClientConversation
	hash scram.HashGeneratorFcn
}

func newSCRAMClient(hash scram.HashGeneratorFcn) sarama.SCRAMClient {
	return &scramClient{hash: hash}
}

func (c *scramClient) Begin(userName, password, authzID string) error {
	client, err := c.hash.NewClient(userName, password, authzID)
	if err != nil {
		return err
	}
	c.Client = client
	c.ClientConversation = client.NewConversation()
	return nil
}

func (c *scramClient) Step(challenge string) (string, error) {
	return c.ClientConversation.Step(challenge)
}

func (c *scramClient) Done() bool {
	return c.ClientConversation.Done()
}
