// Package screen runs the list screens of the admin UI (accounts, profiles,
// plans, services and invoices) on top of the generic listing engine.
package screen

import (
	"context"
	"time"

	"github.com/billadmin/backend/internal/domain/listing"
	"github.com/billadmin/backend/internal/infrastructure/dataset"
	"golang.org/x/text/language"
)

// Screen names, also used as configuration keys
const (
	Accounts = "accounts"
	Profiles = "profiles"
	Plans    = "plans"
	Services = "services"
	Invoices = "invoices"
)

// Source supplies the unfiltered record collections. Every collection of a
// snapshot comes from the same load, and the slices are copies the caller
// may reorder freely.
type Source interface {
	Snapshot(ctx context.Context) (dataset.Snapshot, error)
}

// Options configures the screen engines
type Options struct {
	PageSize    int
	DefaultSort listing.SortSpec
	Locale      language.Tag
	// SearchFields narrows searchTerm matching per screen
	SearchFields map[string][]string
	// Now is the reference clock for billing fields, time.Now when nil
	Now func() time.Time
}
