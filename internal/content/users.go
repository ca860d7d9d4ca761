package content

import (
	"context"

	"github.com/kyangwi/portfolio/internal/domain/user"
	"github.com/kyangwi/portfolio/pkg/apperror"
)

// GetUserByEmail resolves an admin account for login. User lookups never
// touch the cache; credentials must always be current.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	docs, err := r.store.Query(ctx, EntityUsers.Collection(), "email", email)
	if err != nil {
		return nil, apperror.NewUnavailable("query user", err)
	}
	if len(docs) == 0 {
		return nil, apperror.NewNotFound("user", email)
	}
	u, err := decodeDoc[user.User](docs[0])
	if err != nil {
		return nil, apperror.NewInternal("decode user", err)
	}
	return &u, nil
}
