package audit

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"moderation/pkg/censor"
)

func TestMain(m *testing.M) {
	log.SetLevel(log.PanicLevel)
	os.Exit(m.Run())
}

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestPublisher_PublishEvent(t *testing.T) {
	events := &fakeWriter{}
	p := NewPublisher("moderation", nil, events)

	err := p.PublishEvent(context.Background(), Event{
		RequestID: "req-1",
		Source:    "comment",
		Matches:   []string{"damn"},
		Severity:  censor.LevelMild,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events.msgs) != 1 {
		t.Fatalf("want 1 message, got %d", len(events.msgs))
	}

	msg := events.msgs[0]
	if string(msg.Key) != "req-1" {
		t.Errorf("want key %q, got %q", "req-1", msg.Key)
	}

	var got Event
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("failed to unmarshal event: %v", err)
	}
	if got.Kind != KindFlagged {
		t.Errorf("want kind %q, got %q", KindFlagged, got.Kind)
	}
	if got.Service != "moderation" {
		t.Errorf("want service %q, got %q", "moderation", got.Service)
	}
	if got.Timestamp.IsZero() {
		t.Error("event timestamp has zero time value")
	}
	if got.Severity != censor.LevelMild {
		t.Errorf("want severity %q, got %q", censor.LevelMild, got.Severity)
	}
}

func TestPublisher_PublishLog(t *testing.T) {
	logs := &fakeWriter{}
	p := NewPublisher("moderation", logs, nil)

	if !p.Logs() {
		t.Fatal("want request logs enabled")
	}
	if err := p.PublishLog(context.Background(), LogEntry{RequestID: "req-2", StatusCode: 200}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got LogEntry
	if err := json.Unmarshal(logs.msgs[0].Value, &got); err != nil {
		t.Fatalf("failed to unmarshal log entry: %v", err)
	}
	if got.Kind != KindRequest || got.Service != "moderation" {
		t.Errorf("want kind %q and service %q, got %q and %q", KindRequest, "moderation", got.Kind, got.Service)
	}

	// Events are not configured, nothing must be written.
	if err := p.PublishEvent(context.Background(), Event{RequestID: "req-2"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if len(logs.msgs) != 1 {
		t.Errorf("want events kept out of the log topic, got %d messages", len(logs.msgs))
	}
}

func TestPublisher_Nil(t *testing.T) {
	var p *Publisher

	if p.Logs() {
		t.Error("want request logs disabled for nil publisher")
	}
	if err := p.PublishLog(context.Background(), LogEntry{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := p.PublishEvent(context.Background(), Event{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPublisher_WriteError(t *testing.T) {
	wantErr := errors.New("broker unavailable")
	p := NewPublisher("moderation", nil, &fakeWriter{err: wantErr})

	err := p.PublishEvent(context.Background(), Event{RequestID: "req-3"})
	if !errors.Is(err, wantErr) {
		t.Errorf("want error %v, got %v", wantErr, err)
	}
}
