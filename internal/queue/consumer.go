package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/movie-catalog/internal/export"
	"github.com/iliyamo/movie-catalog/internal/mail"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// MovieLister is the read-side dependency of the export worker. The
// catalog repository satisfies it.
type MovieLister interface {
	List(ctx context.Context) ([]model.Movie, error)
}

// ExportWorker consumes export requests, regenerates the movie CSV and
// mails it to the requesting address. Exactly one worker runs per process.
type ExportWorker struct {
	Movies MovieLister
	Mailer mail.Mailer
}

func NewExportWorker(movies MovieLister, mailer mail.Mailer) *ExportWorker {
	return &ExportWorker{Movies: movies, Mailer: mailer}
}

// Run subscribes to the export queue with at-most-one outstanding message
// (prefetch 1) and processes deliveries until the channel closes. A message
// is acknowledged only after the email send returned without error; any
// failure (parse, query, CSV mail) routes to a negative acknowledge with
// requeue disabled. Failed messages are therefore dropped, not retried or
// dead-lettered; whether that is a gap or intended best-effort behavior is
// an open question inherited from the service this one replaces.
func (w *ExportWorker) Run(b *Broker) error {
	if b == nil || b.ch == nil {
		return ErrNotConnected
	}
	if err := b.ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	msgs, err := b.ch.Consume(
		ExportQueueName,
		"",    // consumer tag
		false, // autoAck: we ack manually after the mail went out
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	log.Printf("export-worker: consuming from %s", ExportQueueName)
	for d := range msgs {
		if err := w.handle(d.Body); err != nil {
			log.Printf("export-worker: handle message failed: %v", err)
			_ = d.Nack(false, false) // drop: no requeue, no dead-letter
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

// handle processes one export request end to end. It is separated from the
// delivery loop so the success and failure paths can be tested without a
// running broker.
func (w *ExportWorker) handle(body []byte) error {
	var req ExportRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if req.Email == "" {
		return errors.New("export request without email")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	movies, err := w.Movies.List(ctx)
	if err != nil {
		return fmt.Errorf("list movies: %w", err)
	}
	csv := export.BuildCSV(movies)

	if err := w.Mailer.SendCSVExport(req.Email, csv); err != nil {
		return fmt.Errorf("send export mail: %w", err)
	}
	log.Printf("export-worker: CSV export sent to %s", req.Email)
	return nil
}
