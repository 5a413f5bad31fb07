package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
	done chan struct{}
	want int
}

func (m *recordingMailer) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	if len(m.sent) == m.want {
		close(m.done)
	}
	return nil
}

func TestMailDispatcher_Delivers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := &recordingMailer{done: make(chan struct{}), want: 3}
	d := NewMailDispatcher(2, mailer, zerolog.Nop())
	d.Start(ctx)

	for _, to := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if err := d.Send(ctx, to, "subject", "body"); err != nil {
			t.Fatalf("Send returned error: %v", err)
		}
	}

	select {
	case <-mailer.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("deliveries did not complete; got %d of 3", len(mailer.sent))
	}
}

func TestMailDispatcher_ShardIsStablePerRecipient(t *testing.T) {
	d := NewMailDispatcher(4, &recordingMailer{done: make(chan struct{}), want: -1}, zerolog.Nop())

	first := d.shardIndex("alice@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("alice@example.com"); got != first {
			t.Fatalf("shard index changed: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestMailDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewMailDispatcher(0, &recordingMailer{done: make(chan struct{}), want: -1}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
