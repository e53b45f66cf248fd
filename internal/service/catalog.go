// Package service implements the catalog rules for categories and videos.
// Every call runs inside exactly one unit of work.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ad-tracker/video-catalog-go/internal/db"
	dbmodels "github.com/ad-tracker/video-catalog-go/internal/db/models"
	"github.com/ad-tracker/video-catalog-go/internal/db/repository"
	"github.com/ad-tracker/video-catalog-go/internal/models"
	"github.com/ad-tracker/video-catalog-go/internal/validation"
	"github.com/ad-tracker/video-catalog-go/pkg/logger"
)

const (
	resourceVideo    = "video"
	resourceCategory = "category"
)

// CatalogService handles category and video business logic.
type CatalogService struct {
	uow       repository.UnitOfWork
	validator *validation.Validator
	now       func() time.Time
}

// Option configures a CatalogService.
type Option func(*CatalogService)

// WithClock replaces the clock used for date_created and date_last_changed.
func WithClock(now func() time.Time) Option {
	return func(s *CatalogService) {
		s.now = now
	}
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(uow repository.UnitOfWork, validator *validation.Validator, opts ...Option) *CatalogService {
	s := &CatalogService{
		uow:       uow,
		validator: validator,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListVideos returns active videos ordered by title.
func (s *CatalogService) ListVideos(ctx context.Context) ([]*dbmodels.Video, error) {
	var videos []*dbmodels.Video
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		videos, err = repos.Videos.ListActive(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

// GetVideo returns an active video. Soft-deleted videos are reported as missing.
func (s *CatalogService) GetVideo(ctx context.Context, id int64) (*dbmodels.Video, error) {
	var video *dbmodels.Video
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		video, err = repos.Videos.GetActiveByID(ctx, id)
		return notFoundAs(err, resourceVideo, id)
	})
	if err != nil {
		return nil, err
	}
	return video, nil
}

// CreateVideo stores a new active video in an existing category.
func (s *CatalogService) CreateVideo(ctx context.Context, in *models.VideoInput) (*dbmodels.Video, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	video := dbmodels.NewVideo(in.Title, in.YouTubeCode, in.Category(), s.now())
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		if err := requireCategory(ctx, repos, in.Category()); err != nil {
			return err
		}
		return repos.Videos.Create(ctx, video)
	})
	if err != nil {
		return nil, s.failed("create video", err)
	}

	logger.Log.Info("Video created",
		zap.Int64("videoId", video.ID),
		zap.Int64("categoryId", video.CategoryID),
		zap.String("youtubeCode", video.YouTubeCode),
	)
	return video, nil
}

// UpdateVideo applies the fields present in patch to an active video and
// stamps date_last_changed even when the patch is empty.
func (s *CatalogService) UpdateVideo(ctx context.Context, id int64, patch *dbmodels.VideoPatch) (*dbmodels.Video, error) {
	if err := s.validator.VideoPatch(patch); err != nil {
		return nil, validationError(err)
	}

	var video *dbmodels.Video
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		active, err := repos.Videos.IsActive(ctx, id)
		if err != nil {
			return err
		}
		if !active {
			return &NotFoundError{Resource: resourceVideo, ID: id}
		}

		if patch.Has(dbmodels.FieldCategoryID) {
			if err := requireCategory(ctx, repos, patch.CategoryID); err != nil {
				return err
			}
		}

		video, err = repos.Videos.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, resourceVideo, id)
		}
		video.Apply(patch, s.now())
		return repos.Videos.Update(ctx, video)
	})
	if err != nil {
		return nil, s.failed("update video", err)
	}

	logger.Log.Info("Video updated",
		zap.Int64("videoId", id),
		zap.Int("fields", patch.Fields()),
	)
	return video, nil
}

// ReplaceVideo overwrites every editable field of an active video.
func (s *CatalogService) ReplaceVideo(ctx context.Context, id int64, in *models.VideoInput) (*dbmodels.Video, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	patch := dbmodels.NewVideoPatch().
		SetTitle(in.Title).
		SetYouTubeCode(in.YouTubeCode).
		SetCategoryID(in.Category())
	return s.UpdateVideo(ctx, id, patch)
}

// DeleteVideo soft-deletes an active video.
func (s *CatalogService) DeleteVideo(ctx context.Context, id int64) error {
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		active, err := repos.Videos.IsActive(ctx, id)
		if err != nil {
			return err
		}
		if !active {
			return &NotFoundError{Resource: resourceVideo, ID: id}
		}

		video, err := repos.Videos.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, resourceVideo, id)
		}
		video.SoftDelete(s.now())
		return repos.Videos.Update(ctx, video)
	})
	if err != nil {
		return s.failed("delete video", err)
	}

	logger.Log.Info("Video deleted", zap.Int64("videoId", id))
	return nil
}

// RestoreVideo reactivates a video. Only a missing row is an error; an
// already active video is stamped again.
func (s *CatalogService) RestoreVideo(ctx context.Context, id int64) error {
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		video, err := repos.Videos.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, resourceVideo, id)
		}
		video.Restore(s.now())
		return repos.Videos.Update(ctx, video)
	})
	if err != nil {
		return s.failed("restore video", err)
	}

	logger.Log.Info("Video restored", zap.Int64("videoId", id))
	return nil
}

// ListCategories returns every category ordered by name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]*dbmodels.Category, error) {
	var categories []*dbmodels.Category
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		categories, err = repos.Categories.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory stores a category whose name is not taken yet.
func (s *CatalogService) CreateCategory(ctx context.Context, in *models.CategoryInput) (*dbmodels.Category, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	category := dbmodels.NewCategory(in.Name)
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		inUse, err := repos.Categories.NameInUse(ctx, in.Name)
		if err != nil {
			return err
		}
		if inUse {
			return &ConflictError{Message: fmt.Sprintf("category name %q is already in use", in.Name)}
		}
		return repos.Categories.Create(ctx, category)
	})
	if err != nil {
		return nil, s.failed("create category", err)
	}

	logger.Log.Info("Category created",
		zap.Int64("categoryId", category.ID),
		zap.String("name", category.Name),
	)
	return category, nil
}

// GetCategory returns one category.
func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*dbmodels.Category, error) {
	var category *dbmodels.Category
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		category, err = repos.Categories.GetByID(ctx, id)
		return notFoundAs(err, resourceCategory, id)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory renames a category. The new name is not checked against
// other categories.
func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, in *models.CategoryInput) (*dbmodels.Category, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	var category *dbmodels.Category
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		category, err = repos.Categories.GetByID(ctx, id)
		if err != nil {
			return notFoundAs(err, resourceCategory, id)
		}
		category.Name = in.Name
		return repos.Categories.Update(ctx, category)
	})
	if err != nil {
		return nil, s.failed("update category", err)
	}

	logger.Log.Info("Category updated",
		zap.Int64("categoryId", id),
		zap.String("name", category.Name),
	)
	return category, nil
}

// DeleteCategory removes a category that no active video references.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		exists, err := repos.Categories.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return &NotFoundError{Resource: resourceCategory, ID: id}
		}

		count, err := repos.Videos.ActiveCountInCategory(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return &ConflictError{Message: fmt.Sprintf("category %d still has %d active videos", id, count)}
		}
		return notFoundAs(repos.Categories.Delete(ctx, id), resourceCategory, id)
	})
	if err != nil {
		return s.failed("delete category", err)
	}

	logger.Log.Info("Category deleted", zap.Int64("categoryId", id))
	return nil
}

// ListCategorizedVideos returns active videos with their category name,
// ordered by category name then title.
func (s *CatalogService) ListCategorizedVideos(ctx context.Context) ([]*dbmodels.CategorizedVideo, error) {
	var videos []*dbmodels.CategorizedVideo
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		videos, err = repos.Videos.ListCategorized(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list categorized videos: %w", err)
	}
	return videos, nil
}

// ListVideosForForm returns the rows of the HTML video list.
func (s *CatalogService) ListVideosForForm(ctx context.Context) ([]*dbmodels.VideoListItem, error) {
	var items []*dbmodels.VideoListItem
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		items, err = repos.Videos.ListForForm(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list videos for form: %w", err)
	}
	return items, nil
}

// GetVideoForEdit loads an active video together with the category choices
// of the edit form, both from the same unit of work.
func (s *CatalogService) GetVideoForEdit(ctx context.Context, id int64) (*dbmodels.Video, []*dbmodels.Category, error) {
	var (
		video      *dbmodels.Video
		categories []*dbmodels.Category
	)
	err := s.uow.Do(ctx, func(repos *repository.Repositories) error {
		var err error
		video, err = repos.Videos.GetActiveByID(ctx, id)
		if err != nil {
			return notFoundAs(err, resourceVideo, id)
		}
		categories, err = repos.Categories.List(ctx)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return video, categories, nil
}

func (s *CatalogService) validate(payload any) error {
	if err := s.validator.Struct(payload); err != nil {
		return validationError(err)
	}
	return nil
}

// failed logs and passes through err. Rule violations are already typed;
// store failures are wrapped with the operation.
func (s *CatalogService) failed(operation string, err error) error {
	var (
		notFound *NotFoundError
		conflict *ConflictError
	)
	switch {
	case errors.As(err, &notFound):
		return err
	case errors.As(err, &conflict):
		logger.Log.Warn("Catalog conflict",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return err
	case db.IsCheckViolation(err):
		return &ValidationError{Message: err.Error()}
	default:
		return fmt.Errorf("%s: %w", operation, err)
	}
}

func requireCategory(ctx context.Context, repos *repository.Repositories, id int64) error {
	exists, err := repos.Categories.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return &NotFoundError{Resource: resourceCategory, ID: id}
	}
	return nil
}

// notFoundAs turns db.ErrNotFound into a NotFoundError for the resource.
func notFoundAs(err error, resource string, id int64) error {
	if db.IsNotFound(err) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return err
}

func validationError(err error) error {
	if fields, ok := validation.AsFieldErrors(err); ok {
		return &ValidationError{Message: fields.Error(), Fields: fields}
	}
	return &ValidationError{Message: err.Error()}
}
