// Package notify fans thread mutations out to real-time subscribers.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Kind is the mutation that produced an event
type Kind string

const (
	KindCreate Kind = "create"
	KindUpdate Kind = "update"
	KindRemove Kind = "remove"
)

// Entity is the part of the thread aggregate an event is about
type Entity string

const (
	EntityThread  Entity = "thread"
	EntityComment Entity = "comment"
	EntityReply   Entity = "reply"
)

// Event is emitted after a successful thread mutation
type Event struct {
	Kind      Kind
	Entity    Entity
	ThreadID  uuid.UUID
	CommentID *uuid.UUID
	ReplyID   *uuid.UUID
	Payload   interface{}
}

// Name returns the client-facing event name, e.g. newComment or removedReply
func (e Event) Name() string {
	var prefix string
	switch e.Kind {
	case KindCreate:
		prefix = "new"
	case KindUpdate:
		prefix = "updated"
	case KindRemove:
		prefix = "removed"
	default:
		prefix = string(e.Kind)
	}
	switch e.Entity {
	case EntityThread:
		return prefix + "Thread"
	case EntityComment:
		return prefix + "Comment"
	case EntityReply:
		return prefix + "Reply"
	}
	return prefix + string(e.Entity)
}

// Sink receives events. Implementations must be safe for concurrent use.
type Sink interface {
	Publish(ctx context.Context, event Event) error
}

// Message is the JSON envelope written to websocket clients and Redis
type Message struct {
	Event     string          `json:"event"`
	ThreadID  string          `json:"threadId"`
	CommentID string          `json:"commentId,omitempty"`
	ReplyID   string          `json:"replyId,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Encode serializes an event into its wire envelope
func Encode(event Event) ([]byte, error) {
	msg := Message{
		Event:    event.Name(),
		ThreadID: event.ThreadID.String(),
	}
	if event.CommentID != nil {
		msg.CommentID = event.CommentID.String()
	}
	if event.ReplyID != nil {
		msg.ReplyID = event.ReplyID.String()
	}
	if event.Payload != nil {
		data, err := json.Marshal(event.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s payload: %w", msg.Event, err)
		}
		msg.Data = data
	}
	return json.Marshal(msg)
}

// Decode parses a wire envelope
func Decode(data []byte) (*Message, uuid.UUID, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, uuid.Nil, fmt.Errorf("failed to decode event: %w", err)
	}
	threadID, err := uuid.Parse(msg.ThreadID)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("event has invalid threadId %q: %w", msg.ThreadID, err)
	}
	return &msg, threadID, nil
}

// NoOp discards every event
type NoOp struct{}

func (NoOp) Publish(context.Context, Event) error { return nil }

// Fanout publishes to every sink and joins their errors
type Fanout []Sink

func (f Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, sink := range f {
		if err := sink.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
