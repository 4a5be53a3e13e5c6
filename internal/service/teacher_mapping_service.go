package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/madaris-ops-api/internal/dto"
	"github.com/noah-isme/madaris-ops-api/internal/models"
	appErrors "github.com/noah-isme/madaris-ops-api/pkg/errors"
)

type teacherMappingRepository interface {
	Get(ctx context.Context, sourceTeacherID string) (*models.TeacherMapping, error)
	List(ctx context.Context) ([]models.TeacherMapping, error)
	Upsert(ctx context.Context, m *models.TeacherMapping) error
	Delete(ctx context.Context, sourceTeacherID string) error
}

// TeacherMappingService manages the source-teacher-to-user links the conflict
// detector depends on.
type TeacherMappingService struct {
	repo      teacherMappingRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherMappingService constructs the service.
func NewTeacherMappingService(repo teacherMappingRepository, validate *validator.Validate, logger *zap.Logger) *TeacherMappingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherMappingService{repo: repo, validator: validate, logger: logger}
}

// Get returns the mapping for one source teacher id.
func (s *TeacherMappingService) Get(ctx context.Context, sourceTeacherID string) (*models.TeacherMapping, error) {
	return s.repo.Get(ctx, sourceTeacherID)
}

// List returns all mappings.
func (s *TeacherMappingService) List(ctx context.Context) ([]models.TeacherMapping, error) {
	mappings, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher mappings")
	}
	return mappings, nil
}

// Upsert creates or replaces a mapping.
func (s *TeacherMappingService) Upsert(ctx context.Context, req dto.UpsertTeacherMappingRequest) (*models.TeacherMapping, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mapping payload")
	}
	mapping := &models.TeacherMapping{
		SourceTeacherID: req.SourceTeacherID,
		UserID:          req.UserID,
		UserName:        req.UserName,
	}
	if err := s.repo.Upsert(ctx, mapping); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save teacher mapping")
	}
	s.logger.Info("teacher mapping saved",
		zap.String("source_teacher_id", mapping.SourceTeacherID),
		zap.String("user_id", mapping.UserID),
	)
	return mapping, nil
}

// Delete removes a mapping.
func (s *TeacherMappingService) Delete(ctx context.Context, sourceTeacherID string) error {
	if err := s.repo.Delete(ctx, sourceTeacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher mapping not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher mapping")
	}
	return nil
}
