// Package blob owns the physical document bytes. Nothing else reads or
// writes the underlying storage directly; callers address content through
// opaque locators issued at save time.
package blob

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("blob: object not found")

type Store interface {
	// Save writes content under the locator. Locators are write-once: a new
	// upload always gets a new locator, existing objects are never
	// overwritten.
	Save(ctx context.Context, locator string, content []byte, contentType string) error
	Load(ctx context.Context, locator string) ([]byte, error)
	// Delete removes the object; deleting an unknown locator is not an error.
	Delete(ctx context.Context, locator string) error
}
