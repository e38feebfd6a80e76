package ports

import (
	"context"
)

// Medium is the port for the backing medium holding the serialized catalog document.
type Medium interface {
	// Read returns the whole document. It returns model.ErrNoDocument if nothing was written yet.
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the whole document. Readers observe either the previous
	// document or the new one, never a partial write.
	Write(ctx context.Context, doc []byte) error
}
