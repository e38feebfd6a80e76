package producer

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/rbroggi/hbnb/internal/core/model"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Message attributes carrying the event metadata. The entity states travel
// in the data as a protobuf Struct with "before" and "after" fields.
const (
	AttrEventID  = "event_id"
	AttrKind     = "kind"
	AttrEntityID = "entity_id"
	AttrOp       = "op"
	AttrAt       = "at"
)

// NewProducer creates a new producer.
func NewProducer(topic *pubsub.Topic) (*Producer, error) {
	if topic == nil {
		return nil, errors.New("topic is nil")
	}
	return &Producer{topic: topic}, nil
}

// Producer is the pubsub producer of entity events.
type Producer struct {
	topic *pubsub.Topic
}

func (p *Producer) Send(ctx context.Context, event model.EntityEvent) error {
	msg, err := Encode(event)
	if err != nil {
		return err
	}
	result := p.topic.Publish(ctx, msg)
	// Block until the result is returned and a server-generated
	// ID is returned for the published message.
	_, err = result.Get(ctx)
	if err != nil {
		return fmt.Errorf("pubsub: result.Get: %w", err)
	}
	return nil
}

// Encode builds the pubsub message of an entity event.
func Encode(event model.EntityEvent) (*pubsub.Message, error) {
	before, err := toValue(event.Before)
	if err != nil {
		return nil, fmt.Errorf("error encoding the before state of event ID [%s]: %w", event.ID, err)
	}
	after, err := toValue(event.After)
	if err != nil {
		return nil, fmt.Errorf("error encoding the after state of event ID [%s]: %w", event.ID, err)
	}
	data, err := proto.Marshal(&structpb.Struct{Fields: map[string]*structpb.Value{
		"before": before,
		"after":  after,
	}})
	if err != nil {
		return nil, fmt.Errorf("error marshaling entity-event proto message: %w", err)
	}
	return &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			AttrEventID:  event.ID,
			AttrKind:     string(event.Kind),
			AttrEntityID: event.EntityID,
			AttrOp:       string(event.Op),
			AttrAt:       event.At.UTC().Format(model.TimeLayout),
		},
	}, nil
}

func toValue(r model.Record) (*structpb.Value, error) {
	if r == nil {
		return structpb.NewNullValue(), nil
	}
	s, err := structpb.NewStruct(r)
	if err != nil {
		return nil, err
	}
	return structpb.NewStructValue(s), nil
}
