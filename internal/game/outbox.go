package game

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const outboxSize = 1024

// outboxJob is one pending write to the action log or the result store.
type outboxJob struct {
	name string
	run  func(ctx context.Context) error
}

// outbox runs table writes in order on one goroutine, outside the table lock.
type outbox struct {
	jobs    chan outboxJob
	done    chan struct{}
	timeout time.Duration
	log     logrus.FieldLogger
}

func newOutbox(log logrus.FieldLogger, timeout time.Duration) *outbox {
	o := &outbox{
		jobs:    make(chan outboxJob, outboxSize),
		done:    make(chan struct{}),
		timeout: timeout,
		log:     log,
	}
	go o.loop()
	return o
}

func (o *outbox) loop() {
	defer close(o.done)
	for j := range o.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
		if err := j.run(ctx); err != nil {
			o.log.WithError(err).WithField("job", j.name).Warn("table write failed")
		}
		cancel()
	}
}

// enqueue never blocks; when the queue is full the job is dropped.
func (o *outbox) enqueue(j outboxJob) {
	select {
	case o.jobs <- j:
	default:
		o.log.WithField("job", j.name).Error("table write queue full, dropping write")
	}
}

// close drains the queue and waits for the last write.
func (o *outbox) close() {
	close(o.jobs)
	<-o.done
}
