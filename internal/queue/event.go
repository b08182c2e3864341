// Package queue defines message payloads exchanged over the message broker
// and the producer/consumer pair of the CSV export pipeline.
package queue

// ExportQueueName is the durable queue carrying export requests. Both the
// producer and the consumer declare it so either side can start first.
const ExportQueueName = "export_movies_queue"

// ExportRequest is published when an admin triggers a catalog export. It is
// transient: it exists only on the bus between producer and consumer and is
// never persisted by the application.
type ExportRequest struct {
	Email string `json:"email"`
}
