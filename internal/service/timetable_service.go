package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/madaris-ops-api/internal/dto"
	"github.com/noah-isme/madaris-ops-api/internal/models"
	appErrors "github.com/noah-isme/madaris-ops-api/pkg/errors"
)

type timetableParser interface {
	Parse(raw []byte) (*models.Timetable, error)
}

type timetableRepository interface {
	Save(ctx context.Context, tt *models.Timetable) error
	Load(ctx context.Context, id string) (*models.Timetable, error)
	FindActiveID(ctx context.Context) (string, error)
}

type timetableCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// TimetableService owns the import lifecycle: one parse operation creates the
// whole normalized timetable and replaces the previously active one, there is
// no incremental merge.
type TimetableService struct {
	parser   timetableParser
	repo     timetableRepository
	cache    timetableCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewTimetableService wires the import pipeline.
func NewTimetableService(parser timetableParser, repo timetableRepository, cache timetableCache, cacheTTL time.Duration, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 15 * time.Minute
	}
	return &TimetableService{parser: parser, repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Import normalizes a raw export and persists it as the new active
// timetable. The import is atomic: a parse failure leaves the previously
// active timetable untouched.
func (s *TimetableService) Import(ctx context.Context, raw []byte) (*dto.ImportTimetableResponse, error) {
	tt, err := s.parser.Parse(raw)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, tt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save timetable")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKeyTimetable(tt.ID), tt, s.cacheTTL); err != nil {
			s.logger.Warn("timetable cache write failed", zap.String("timetable_id", tt.ID), zap.Error(err))
		}
	}

	s.logger.Info("timetable imported", zap.String("timetable_id", tt.ID), zap.Int("slots", len(tt.Slots)))
	return &dto.ImportTimetableResponse{
		TimetableID: tt.ID,
		Days:        len(tt.Days),
		Periods:     len(tt.Periods),
		Subjects:    len(tt.Subjects),
		Teachers:    len(tt.Teachers),
		Classrooms:  len(tt.Classrooms),
		Classes:     len(tt.Classes),
		Slots:       len(tt.Slots),
	}, nil
}

// Get loads a normalized timetable, trying the cache first.
func (s *TimetableService) Get(ctx context.Context, id string) (*models.Timetable, error) {
	if s.cache != nil {
		var cached models.Timetable
		if err := s.cache.Get(ctx, cacheKeyTimetable(id), &cached); err == nil {
			return &cached, nil
		}
	}

	tt, err := s.repo.Load(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKeyTimetable(id), tt, s.cacheTTL); err != nil {
			s.logger.Warn("timetable cache write failed", zap.String("timetable_id", id), zap.Error(err))
		}
	}
	return tt, nil
}

// GetActive loads the currently active timetable.
func (s *TimetableService) GetActive(ctx context.Context) (*models.Timetable, error) {
	id, err := s.repo.FindActiveID(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no active timetable")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve active timetable")
	}
	return s.Get(ctx, id)
}

func cacheKeyTimetable(id string) string {
	return fmt.Sprintf("timetable:%s", id)
}
