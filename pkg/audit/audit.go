// Package audit publishes request logs and moderation events to Kafka.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"moderation/pkg/censor"
)

const (
	KindRequest = "request"
	KindFlagged = "flagged"
)

const writeTimeout = 10 * time.Second

type LogEntry struct {
	Kind       string    `json:"kind"`
	Timestamp  time.Time `json:"timestamp"`
	IP         string    `json:"ip"`
	StatusCode int       `json:"status_code"`
	RequestID  string    `json:"request_id"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Duration   float64   `json:"duration_sec"`
	Bytes      int       `json:"bytes"`
	Service    string    `json:"service"`
}

// Event describes a submission the censor rejected.
type Event struct {
	Kind      string       `json:"kind"`
	Timestamp time.Time    `json:"timestamp"`
	RequestID string       `json:"request_id"`
	Service   string       `json:"service"`
	FlaggedID string       `json:"flagged_id"`
	Source    string       `json:"source"`
	Author    string       `json:"author"`
	Matches   []string     `json:"matches"`
	Severity  censor.Level `json:"severity"`
}

// Writer is the part of *kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher sends JSON documents to Kafka. A nil Publisher or a nil writer
// drops documents silently.
type Publisher struct {
	service string
	logs    Writer
	events  Writer
}

func NewPublisher(service string, logs, events Writer) *Publisher {
	return &Publisher{service: service, logs: logs, events: events}
}

// Logs reports whether request logs are published.
func (p *Publisher) Logs() bool {
	return p != nil && p.logs != nil
}

func (p *Publisher) PublishLog(ctx context.Context, entry LogEntry) error {
	if !p.Logs() {
		return nil
	}
	entry.Kind = KindRequest
	if entry.Service == "" {
		entry.Service = p.service
	}
	return publish(ctx, p.logs, entry.RequestID, entry)
}

func (p *Publisher) PublishEvent(ctx context.Context, ev Event) error {
	if p == nil || p.events == nil {
		return nil
	}
	ev.Kind = KindFlagged
	if ev.Service == "" {
		ev.Service = p.service
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	return publish(ctx, p.events, ev.RequestID, ev)
}

func publish(ctx context.Context, w Writer, key string, doc any) error {
	value, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := w.WriteMessages(ctx, kafka.Message{Key: []byte(key), Value: value}); err != nil {
		return err
	}
	log.Debugf("[audit] document sent to Kafka request_id:%s", key)

	return nil
}

// CreateTopic creates a single-partition topic on the broker.
func CreateTopic(broker, topic string) error {
	conn, err := kafka.DialContext(context.Background(), "tcp", broker)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
}
