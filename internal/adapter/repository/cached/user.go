package cached

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"puser-service/internal/adapter/cache"
	domain "puser-service/internal/domain/user"
	"puser-service/internal/usecase/user"
	apperrors "puser-service/pkg/errors"
)

// DefaultLoadTimeout bounds a shared database load when none is configured.
const DefaultLoadTimeout = 10 * time.Second

// CachedUserRepository implements user.Repository with read-through caching.
// It wraps a persistent repository (DB) and a cache implementation.
type CachedUserRepository struct {
	dbRepo      user.Repository
	cache       cache.UserListCache
	log         *zap.Logger
	group       singleflight.Group
	loadTimeout time.Duration
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
// A nil cache still collapses concurrent reads into one query.
// loadTimeout bounds each shared database load; zero means DefaultLoadTimeout.
func NewCachedUserRepository(dbRepo user.Repository, c cache.UserListCache, log *zap.Logger, loadTimeout time.Duration) *CachedUserRepository {
	if loadTimeout <= 0 {
		loadTimeout = DefaultLoadTimeout
	}
	return &CachedUserRepository{
		dbRepo:      dbRepo,
		cache:       c,
		log:         log,
		loadTimeout: loadTimeout,
	}
}

// List returns the user list, cache first. Every caller receives its own
// slice; errors from the database are never cached.
func (r *CachedUserRepository) List(ctx context.Context) ([]domain.User, error) {
	if users := r.fromCache(ctx); users != nil {
		return users, nil
	}

	ch := r.group.DoChan(cache.UserListKey, func() (any, error) {
		// The flight outlives any single caller, so it does not inherit its
		// cancellation, but it is never unbounded.
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.loadTimeout)
		defer cancel()

		// Another flight may have populated the cache while we were waiting
		if users := r.fromCache(flightCtx); users != nil {
			return users, nil
		}

		users, err := r.dbRepo.List(flightCtx)
		if err != nil {
			return nil, err
		}

		if r.cache != nil {
			if err := r.cache.Set(flightCtx, users); err != nil {
				r.log.Warn("failed to cache user list", zap.Error(err))
			}
		}
		return users, nil
	})

	select {
	case <-ctx.Done():
		// Later callers start a fresh load instead of joining one that may be stuck.
		r.group.Forget(cache.UserListKey)
		return nil, apperrors.NewStorageError("list users", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		users := res.Val.([]domain.User)
		if res.Shared {
			return copyUsers(users), nil
		}
		return users, nil
	}
}

func (r *CachedUserRepository) fromCache(ctx context.Context) []domain.User {
	if r.cache == nil {
		return nil
	}
	users, err := r.cache.Get(ctx)
	if err != nil {
		r.log.Warn("cache get error, falling back to database", zap.Error(err))
		return nil
	}
	return users
}

func copyUsers(users []domain.User) []domain.User {
	out := make([]domain.User, len(users))
	copy(out, users)
	return out
}
