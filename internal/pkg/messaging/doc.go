// Package messaging publishes and consumes events over a pluggable broker.
//
// Business code depends on Publisher and Consumer only. The driver is picked
// at startup: NATS, NSQ, Kafka, Google Pub/Sub, or an in-process memory bus
// for single-node deployments and tests.
package messaging
