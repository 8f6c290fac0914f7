package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	domain "puser-service/internal/domain/user"
	"puser-service/pkg/logger"
	"puser-service/pkg/metrics"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer so that the database-backed and cached
// implementations can be used interchangeably.
type Repository interface {
	List(ctx context.Context) ([]domain.User, error) // List all users, store order
}

// ListObserver receives the outcome of every listing call.
// *metrics.Metrics implements it; nil disables observation.
type ListObserver interface {
	ObserveList(result string, rows int, elapsed time.Duration)
}

// Service implements the business logic for user listing.
type Service struct {
	repo     Repository   // Repository for data access
	log      *zap.Logger  // Logger for structured logging
	observer ListObserver // Optional metrics sink
}

// New creates a new instance of Service with the provided repository and logger.
// If observer is nil, no metrics are recorded.
func New(r Repository, log *zap.Logger, observer ListObserver) *Service {
	return &Service{repo: r, log: log, observer: observer}
}

// ListUsers retrieves every user. It returns either the full list or a single
// StorageError / MappingError, never a partial result.
func (s *Service) ListUsers(ctx context.Context) (*ListUsersResponse, error) {
	log := logger.WithContext(ctx, s.log)
	start := time.Now()

	domainUsers, err := s.repo.List(ctx)
	elapsed := time.Since(start)
	if err != nil {
		log.Error("failed to list users", zap.Duration("elapsed", elapsed), zap.Error(err))
		s.observe(metrics.ResultFor(err), 0, elapsed)
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = User{
			ID:       du.ID,
			UserName: du.UserName,
		}
	}

	log.Debug("listed users", zap.Int("count", len(users)), zap.Duration("elapsed", elapsed))
	s.observe(metrics.ResultOK, len(users), elapsed)

	return &ListUsersResponse{
		Users: users,
	}, nil
}

func (s *Service) observe(result string, rows int, elapsed time.Duration) {
	if s.observer != nil {
		s.observer.ObserveList(result, rows, elapsed)
	}
}
