package subscriber

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/rbroggi/hbnb/internal/actors/pubsub/producer"
	"github.com/rbroggi/hbnb/internal/core/model"
	"github.com/rbroggi/hbnb/internal/core/ports"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	log "github.com/sirupsen/logrus"
)

// SubscriberArgs contain the mandatory arguments to build a subscriber.
type SubscriberArgs struct {
	// Subscription is a pubsub subscription
	Subscription *pubsub.Subscription

	// EntityEventHandler is a event handler
	EntityEventHandler ports.EntityEventHandler
}

// Subscriber is a pubsub async subscriber
type Subscriber struct {
	subscription       *pubsub.Subscription
	entityEventHandler ports.EntityEventHandler
}

// NewSubscriber creates a subscriber
func NewSubscriber(args SubscriberArgs) (*Subscriber, error) {
	if args.Subscription == nil {
		return nil, errors.New("subscription is nil")
	}
	if args.EntityEventHandler == nil {
		return nil, errors.New("entity event handler is nil")
	}
	return &Subscriber{
		subscription:       args.Subscription,
		entityEventHandler: args.EntityEventHandler,
	}, nil
}

// Consume starts the subscriber. This is a blocking method and should be started in it's own go-routine.
// The way to terminate the method is to cancel the context in input.
//
// Messages that cannot be decoded are acked and dropped since a redelivery
// would not fix them; handler failures are nacked for redelivery.
func (s *Subscriber) Consume(ctx context.Context) error {
	if err := s.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		entityEvent, err := Decode(msg)
		if err != nil {
			log.WithError(err).WithField("message_id", msg.ID).Error("error decoding message into entity-event, dropping it")
			msg.Ack()
			return
		}

		if err := s.entityEventHandler.Handle(ctx, *entityEvent); err != nil {
			log.WithError(err).WithField("event_id", entityEvent.ID).Error("error in entity event handler")
			msg.Nack()
		} else {
			msg.Ack()
		}
	}); err != nil {
		return fmt.Errorf("error receiving messages from subscription: %w", err)
	}
	return nil
}

// ErrMalformedEvent is returned for messages that do not carry an entity event.
var ErrMalformedEvent = errors.New("malformed entity event")

// Decode reads back a message built by producer.Encode.
func Decode(msg *pubsub.Message) (*model.EntityEvent, error) {
	if msg == nil {
		return nil, errors.New("cannot decode nil pubsub msg")
	}
	attrs := msg.Attributes
	event := &model.EntityEvent{
		ID:       attrs[producer.AttrEventID],
		Kind:     model.Kind(attrs[producer.AttrKind]),
		EntityID: attrs[producer.AttrEntityID],
		Op:       model.Op(attrs[producer.AttrOp]),
	}
	if event.ID == "" || event.Kind == "" || event.EntityID == "" || event.Op == "" {
		return nil, fmt.Errorf("%w: missing attributes", ErrMalformedEvent)
	}
	at, err := time.Parse(model.TimeLayout, attrs[producer.AttrAt])
	if err != nil {
		return nil, fmt.Errorf("%w: bad %s attribute: %v", ErrMalformedEvent, producer.AttrAt, err)
	}
	event.At = at.UTC()

	envelope := new(structpb.Struct)
	if err := proto.Unmarshal(msg.Data, envelope); err != nil {
		return nil, fmt.Errorf("%w: proto unmarshal error: %v", ErrMalformedEvent, err)
	}
	if event.Before, err = toRecord(envelope, "before"); err != nil {
		return nil, err
	}
	if event.After, err = toRecord(envelope, "after"); err != nil {
		return nil, err
	}
	return event, nil
}

func toRecord(envelope *structpb.Struct, field string) (model.Record, error) {
	v, ok := envelope.GetFields()[field]
	if !ok {
		return nil, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_StructValue:
		return k.StructValue.AsMap(), nil
	}
	return nil, fmt.Errorf("%w: %s is not a record", ErrMalformedEvent, field)
}
