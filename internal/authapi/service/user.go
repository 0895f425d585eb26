package service

import (
	"context"

	"github.com/angularauth/authapi/internal/authapi/domain"
	"github.com/angularauth/authapi/internal/authapi/store"
)

type UserService struct {
	Store store.Store
}

// ListUsers returns the redacted projection of every account.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := s.Store.Users().ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}
