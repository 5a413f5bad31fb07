package queue

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/criticdb/review-api/internal/api/metrics"
	"github.com/criticdb/review-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

type message struct {
	To      string
	Subject string
	Body    string
}

// MailDispatcher delivers mail asynchronously through a fixed set of workers
// sharded by recipient, so messages to the same address keep their order.
// It implements ports.Mailer: Send enqueues and returns immediately, making
// delivery fire-and-forget for the caller.
type MailDispatcher struct {
	workers []chan message
	mailer  ports.Mailer
	log     zerolog.Logger
}

// NewMailDispatcher creates a dispatcher with numWorkers sharded workers
// delivering through the given transport mailer. If numWorkers <= 0,
// defaultWorkers is used.
func NewMailDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *MailDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &MailDispatcher{
		workers: make([]chan message, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan message, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Send enqueues a message for asynchronous delivery. It never blocks beyond
// channelBuffer capacity and never reports transport failures to the caller.
func (d *MailDispatcher) Send(_ context.Context, to, subject, body string) error {
	idx := d.shardIndex(to)
	d.workers[idx] <- message{To: to, Subject: subject, Body: body}
	metrics.MailQueueDepth.WithLabelValues(fmt.Sprint(idx)).Set(float64(len(d.workers[idx])))
	return nil
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := d.mailer.Send(ctx, msg.To, msg.Subject, msg.Body); err != nil {
				metrics.MailDeliveriesTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("to", msg.To).
					Int("worker_id", id).
					Msg("mail delivery failed")
				continue
			}
			metrics.MailDeliveriesTotal.WithLabelValues("ok").Inc()
			metrics.MailQueueDepth.WithLabelValues(fmt.Sprint(id)).Set(float64(len(ch)))
		}
	}
}
