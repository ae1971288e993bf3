package mailer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type job struct {
	to       string
	username string
	link     string
}

// Dispatcher delivers confirmation emails off the request path. Enqueue never
// blocks: when the buffer is full the email is dropped and logged, since
// delivery is best-effort and the user can request a re-send.
type Dispatcher struct {
	sender Sender
	jobs   chan job
	log    *zap.Logger
	wg     sync.WaitGroup
}

func NewDispatcher(sender Sender, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		sender: sender,
		jobs:   make(chan job, 64),
		log:    logger,
	}
	d.wg.Add(1)
	go d.run()
	return d
}

func (d *Dispatcher) Enqueue(to, username, link string) {
	select {
	case d.jobs <- job{to: to, username: username, link: link}:
	default:
		d.log.Warn("mail queue full, dropping confirmation email", zap.String("to", to))
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for j := range d.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := d.sender.Send(ctx, j.to, j.username, j.link); err != nil {
			d.log.Warn("failed to send confirmation email",
				zap.String("to", j.to), zap.Error(err))
		}
		cancel()
	}
}

// Close drains the queue and stops the worker.
func (d *Dispatcher) Close() {
	close(d.jobs)
	d.wg.Wait()
}
