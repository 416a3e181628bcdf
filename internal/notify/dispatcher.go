// Package notify delivers notifications asynchronously so request handlers
// never wait on notification writes.
package notify

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/rewear/rewear/internal/model"
	"github.com/rewear/rewear/internal/store"
)

// Dispatcher buffers notifications behind a channel and persists them from
// a background worker. Delivery is best effort: a full queue or a failed
// write after one retry drops the notification with a log entry.
type Dispatcher struct {
	db    *sql.DB
	queue chan model.Notification
	done  chan struct{}
	once  sync.Once
}

// NewDispatcher starts a dispatcher with the given queue capacity.
func NewDispatcher(db *sql.DB, queueSize int) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 64
	}
	d := &Dispatcher{
		db:    db,
		queue: make(chan model.Notification, queueSize),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

// Enqueue queues notifications for delivery without blocking. Notifications
// that do not fit in the queue are dropped.
func (d *Dispatcher) Enqueue(notifications ...model.Notification) {
	for _, n := range notifications {
		select {
		case d.queue <- n:
		default:
			slog.Warn("notification queue full, dropping",
				"user_id", n.UserID, "type", n.Type)
		}
	}
}

// Close stops accepting notifications and waits for the queued ones to be
// delivered.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
		<-d.done
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *Dispatcher) deliver(n model.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := store.CreateNotification(ctx, d.db, n)
	if err == nil {
		return
	}
	slog.Warn("notification write failed, retrying",
		"user_id", n.UserID, "type", n.Type, "error", err)

	if err := store.CreateNotification(ctx, d.db, n); err != nil {
		slog.Error("notification dropped",
			"user_id", n.UserID, "type", n.Type, "error", err)
	}
}
