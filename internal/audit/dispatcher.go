package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	queueSize    = 256
	writeTimeout = 5 * time.Second
)

type Event struct {
	ClinicID uuid.UUID
	UserID   uuid.UUID
	Action   string
	Entity   string
	EntityID uuid.UUID
	Metadata any
}

type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// Dispatcher persists audit events on a single background worker. Dispatch
// never blocks the request: when the queue is full the event is dropped.
type Dispatcher struct {
	sink      Sink
	log       *zap.Logger
	onDrop    func()
	queue     chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func NewDispatcher(sink Sink, log *zap.Logger, onDrop func()) *Dispatcher {
	if onDrop == nil {
		onDrop = func() {}
	}

	d := &Dispatcher{
		sink:   sink,
		log:    log,
		onDrop: onDrop,
		queue:  make(chan Event, queueSize),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.sink.Log(ctx, ev); err != nil {
			d.log.Error("audit write failed",
				zap.String("action", ev.Action),
				zap.String("clinic_id", ev.ClinicID.String()),
				zap.Error(err),
			)
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.onDrop()
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for the queue to drain, up to
// the context deadline. Dispatch must not be called after Close.
func (d *Dispatcher) Close(ctx context.Context) {
	d.closeOnce.Do(func() { close(d.queue) })

	select {
	case <-d.done:
	case <-ctx.Done():
		d.log.Warn("audit drain interrupted, pending events lost")
	}
}
