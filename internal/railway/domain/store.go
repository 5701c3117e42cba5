package domain

import "context"

// InventoryStore is the durable home of the booking inventory. Every
// save is full-replace: the implementation clears the entity set and
// rewrites it from the given slice. Loading users includes their trips.
type InventoryStore interface {
	LoadTrains(ctx context.Context) ([]*Train, error)
	SaveTrains(ctx context.Context, trains []*Train) error

	LoadUsers(ctx context.Context) ([]*User, error)
	SaveUsers(ctx context.Context, users []*User) error

	LoadAdmins(ctx context.Context) ([]*Admin, error)
	SaveAdmins(ctx context.Context, admins []*Admin) error

	LoadSuspended(ctx context.Context) ([]string, error)
	SaveSuspended(ctx context.Context, trainNumbers []string) error
}
