// Package collab declares the external services the client core depends on.
// Controllers receive implementations at construction time; production
// adapters live in the subpackages, tests use hand-written fakes.
package collab

import (
	"context"

	"cleancity/models"
)

// Record is one raw document as stored in or read from the document store.
type Record = map[string]any

// Increment marks a numeric field for server-side increment inside a
// MergeUpdate record.
type Increment struct {
	By int64
}

// AuthService is the managed authentication provider.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*models.Identity, error)
	SignUp(ctx context.Context, email, password string) (*models.Identity, error)
	SendPasswordReset(ctx context.Context, email string) error
	UpdateDisplayName(ctx context.Context, identity *models.Identity, name string) error
	// Current returns the signed-in identity, or nil when nobody is.
	Current() *models.Identity
}

// DocumentStore is the managed document database holding reports and user
// counters.
type DocumentStore interface {
	// Query returns every record in the collection ordered by one field.
	// The record map includes the document id under the "id" key.
	Query(ctx context.Context, collection, orderBy string, descending bool) ([]Record, error)
	// Insert writes a new record and returns the id the store assigned.
	Insert(ctx context.Context, collection string, rec Record) (string, error)
	// MergeUpdate merges rec into the document, creating it when absent.
	// Increment values are applied server-side.
	MergeUpdate(ctx context.Context, collection, id string, rec Record) error
}

// ImageHost stores report photos and hands back a public URL.
type ImageHost interface {
	Upload(ctx context.Context, image []byte, name string) (string, error)
}

// Coordinates is a device position fix.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Address is a reverse-geocoded location description. Any field may be
// empty.
type Address struct {
	Street  string
	City    string
	State   string
	Country string
}

// LocationProvider supplies the device position and reverse geocoding.
type LocationProvider interface {
	// Current returns the device coordinates, or (nil, nil) when no fix is
	// available. Errors are reserved for actual lookup failures.
	Current(ctx context.Context) (*Coordinates, error)
	AddressFor(ctx context.Context, lat, lon float64) (*Address, error)
}
