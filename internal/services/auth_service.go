package services

import (
	"context"
	"fmt"

	"stockyfy/internal/caching"
	"stockyfy/internal/models"
	"stockyfy/internal/store"
)

// AuthService authenticates operators against the shared-secret user list.
// A key is valid iff it exactly matches the secretKey of some warehouseman;
// there is no hashing, no token and no expiry. The identity is kept in the
// session cache until an explicit logout.
type AuthService interface {
	Login(ctx context.Context, secretKey string) (*models.Warehouseman, error)
	CurrentUser(ctx context.Context) (*models.Warehouseman, error)
	Logout(ctx context.Context) error
}

type authService struct {
	store store.Store
	cache caching.CacheService
}

func NewAuthService(st store.Store, cache caching.CacheService) AuthService {
	return &authService{
		store: st,
		cache: cache,
	}
}

// Login scans the full user list for an exact secret-key match. A nil user
// with a nil error means the key matched nobody.
func (s *authService) Login(ctx context.Context, secretKey string) (*models.Warehouseman, error) {
	users, err := s.store.ListWarehousemen(ctx)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].SecretKey == secretKey {
			user := users[i]
			if err := s.cache.SetSession(ctx, &user); err != nil {
				return nil, fmt.Errorf("persist session: %w", err)
			}
			return &user, nil
		}
	}
	return nil, nil
}

func (s *authService) CurrentUser(ctx context.Context) (*models.Warehouseman, error) {
	return s.cache.GetSession(ctx)
}

func (s *authService) Logout(ctx context.Context) error {
	return s.cache.DeleteSession(ctx)
}
