// Package messaging provides a broker-agnostic API for publishing and
// consuming events.
//
// Business code depends on Publisher and Consumer; the driver (in-process,
// NATS, NSQ, Kafka or Google Pub/Sub) is picked by configuration through
// NewFromDriver.
package messaging
