package usecase

import (
	"context"
	"fmt"
	"maps"
	"reflect"

	"github.com/rbroggi/hbnb/internal/core/model"
	"github.com/rbroggi/hbnb/internal/core/ports"
)

// Redacted replaces secrets in published records.
const Redacted = "********"

// NewInformer builds a new informer.
func NewInformer(sender ports.Sender) *Informer {
	return &Informer{sender: sender}
}

// Informer adapts committed catalog changes to public-facing events. It
// publicly 'informs' about entity changes.
type Informer struct {
	sender ports.Sender
}

// Handle redacts the event and sends it, unless nothing visible changed.
func (i *Informer) Handle(ctx context.Context, event model.EntityEvent) error {
	// 1. we don't want to publish password hashes
	event.Before = redact(event.Before)
	event.After = redact(event.After)

	// this happens if there were only changes in the password hash
	if recordsAreEqual(event.Before, event.After) {
		return nil
	}

	if err := i.sender.Send(ctx, event); err != nil {
		return fmt.Errorf("error sending entity event ID [%s]: %w", event.ID, err)
	}

	return nil
}

func redact(r model.Record) model.Record {
	if r == nil || r.Class() != model.KindUser {
		return r
	}
	out := maps.Clone(r)
	if _, ok := out["password"]; ok {
		out["password"] = Redacted
	}
	return out
}

// recordsAreEqual ignores updated_at, which moves on every update.
func recordsAreEqual(before, after model.Record) bool {
	if before == nil || after == nil {
		return before == nil && after == nil
	}
	b, a := maps.Clone(before), maps.Clone(after)
	delete(b, model.UpdatedAtField)
	delete(a, model.UpdatedAtField)
	return reflect.DeepEqual(b, a)
}
