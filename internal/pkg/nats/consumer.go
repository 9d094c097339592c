package nats

import (
	"github.com/nats-io/nats.go/jetstream"
)

// MessageHandler is a function that processes raw NATS message payloads
type MessageHandler func(message []byte) error

// JetStreamMessageHandler is a function that processes JetStream messages;
// returning an error triggers a NAK and redelivery.
type JetStreamMessageHandler func(msg jetstream.Msg) error
