package ports

import (
	"time"

	"github.com/rbroggi/hbnb/internal/core/model"
)

// StoreObserver receives the outcome of whole-document persistence operations.
type StoreObserver interface {
	// ObserveSave is called after every save attempt, including skipped ones (err nil, counts empty).
	ObserveSave(counts map[model.Kind]int, took time.Duration, err error)

	// ObserveReload is called after every reload attempt.
	ObserveReload(counts map[model.Kind]int, took time.Duration, err error)
}
