package users

import "context"

// Repo persists accounts. Create and Update return ErrEmailTaken on a duplicate email.
type Repo interface {
	Create(ctx context.Context, user User) error
	Update(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByGoogleSub(ctx context.Context, sub string) (User, error)
	Stats(ctx context.Context) (Stats, error)
}
