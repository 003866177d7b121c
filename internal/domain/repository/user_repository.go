package repository

import (
	"context"
	"errors"

	"github.com/DarieldonMedeiros/santander-bootcamp/internal/domain/entity"
)

// ErrUserNotFound is returned by FindByID when no aggregate exists for the id.
var ErrUserNotFound = errors.New("user not found")

// UserRepository is the persistence gateway for the user aggregate.
// No business rule lives here; it is a pure capability interface.
type UserRepository interface {
	// FindAll returns every persisted user, order is store-defined.
	FindAll(ctx context.Context) ([]*entity.User, error)

	// FindByID returns the aggregate for id, or ErrUserNotFound.
	FindByID(ctx context.Context, id int64) (*entity.User, error)

	// ExistsByAccountNumber reports whether any account carries the number.
	ExistsByAccountNumber(ctx context.Context, number string) (bool, error)

	// ExistsByCardNumber reports whether any card carries the number.
	ExistsByCardNumber(ctx context.Context, number string) (bool, error)

	// Save inserts the aggregate when its ID is zero, assigning a new
	// identity, and overwrites it otherwise. It returns the persisted form.
	Save(ctx context.Context, u *entity.User) (*entity.User, error)

	// Delete removes the aggregate and everything it owns.
	Delete(ctx context.Context, u *entity.User) error
}
