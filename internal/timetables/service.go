// Package timetables assembles page data from the schedule backend and
// renders the timetables on it.
package timetables

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/timetable-viewer/internal/backend"
	"github.com/timetable-viewer/internal/cache"
	"github.com/timetable-viewer/internal/metrics"
)

// Backend is the part of the schedule backend the service reads from.
type Backend interface {
	BlockTimetable(ctx context.Context, blockID int) (*backend.BlockTimetable, error)
	Program(ctx context.Context, programID int) (*backend.ProgramData, error)
	Rankings(ctx context.Context) ([]backend.Ranking, error)
	Stats(ctx context.Context) (*backend.Stats, error)
	Generate(ctx context.Context) (*backend.ActionResult, error)
	Rank(ctx context.Context) (*backend.ActionResult, error)
}

type Service struct {
	logger  *slog.Logger
	backend Backend
	cache   *cache.Store
}

// NewService returns a service reading through store. A nil store disables
// caching.
func NewService(logger *slog.Logger, backend Backend, store *cache.Store) *Service {
	return &Service{
		logger:  logger,
		backend: backend,
		cache:   store,
	}
}

func (s *Service) BlockTimetable(ctx context.Context, blockID int) (*backend.BlockTimetable, error) {
	return readThrough(ctx, s, fmt.Sprintf("blocks/%d", blockID), func() (*backend.BlockTimetable, error) {
		return s.backend.BlockTimetable(ctx, blockID)
	})
}

func (s *Service) Program(ctx context.Context, programID int) (*backend.ProgramData, error) {
	return readThrough(ctx, s, fmt.Sprintf("programs/%d", programID), func() (*backend.ProgramData, error) {
		return s.backend.Program(ctx, programID)
	})
}

func (s *Service) Rankings(ctx context.Context) ([]backend.Ranking, error) {
	return readThrough(ctx, s, "rankings", func() ([]backend.Ranking, error) {
		return s.backend.Rankings(ctx)
	})
}

func (s *Service) Stats(ctx context.Context) (*backend.Stats, error) {
	return readThrough(ctx, s, "stats", func() (*backend.Stats, error) {
		return s.backend.Stats(ctx)
	})
}

// Generate relays schedule generation to the backend.
func (s *Service) Generate(ctx context.Context) (*backend.ActionResult, error) {
	return s.action(ctx, "generate", s.backend.Generate)
}

// Rank relays block ranking to the backend.
func (s *Service) Rank(ctx context.Context) (*backend.ActionResult, error) {
	return s.action(ctx, "rank", s.backend.Rank)
}

// action runs fn and drops cached responses once the backend reports
// success, since both actions rewrite the schedule.
func (s *Service) action(ctx context.Context, name string, fn func(context.Context) (*backend.ActionResult, error)) (*backend.ActionResult, error) {
	result, err := fn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	s.logger.Info("action finished", "action", name, "success", result.Success)
	if result.Success && s.cache != nil {
		if err := s.cache.DropAll(ctx); err != nil {
			s.logger.Error("failed to drop cache", "action", name, "error", err)
		}
	}
	return result, nil
}

func readThrough[T any](ctx context.Context, s *Service, key string, fetch func() (T, error)) (T, error) {
	var value T
	if s.cache != nil {
		err := s.cache.Get(ctx, key, &value)
		switch {
		case err == nil:
			metrics.TrackCacheHit()
			return value, nil
		case errors.Is(err, cache.ErrNotFound):
			metrics.TrackCacheMiss()
		default:
			s.logger.Error("failed to read cache", "key", key, "error", err)
		}
	}

	value, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, value); err != nil {
			s.logger.Error("failed to write cache", "key", key, "error", err)
		}
	}
	return value, nil
}
