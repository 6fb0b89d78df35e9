package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

const msgEventNotFound = "Event not found"

type Service struct {
	repo   ports.EventRepository
	images ports.ImageService
	log    *zap.Logger
	now    func() time.Time
}

func NewService(repo ports.EventRepository, images ports.ImageService, log *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		images: images,
		log:    log,
		now:    time.Now,
	}
}

func (s *Service) CreateEvent(ctx context.Context, input domain.EventInput, uploads []ports.ImageUpload, createdBy string) (*domain.Event, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}
	if err := domain.CheckEventDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	images, err := s.processAll(ctx, uploads)
	if err != nil {
		return nil, err
	}

	now := s.now()
	event := &domain.Event{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		Images:      images,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Location:    input.Location,
		Category:    input.Category,
		CreatedBy:   createdBy,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Save(ctx, event); err != nil {
		s.discard(images)
		return nil, domain.Internal(err)
	}

	s.log.Info("event created",
		zap.String("event_id", event.ID),
		zap.Int("images", len(images)),
	)
	return event, nil
}

func (s *Service) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch, uploads []ports.ImageUpload) (*domain.Event, error) {
	if err := domain.Validate(patch); err != nil {
		return nil, err
	}
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.StartDate != nil {
		event.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		event.EndDate = *patch.EndDate
	}
	if patch.Location != nil {
		event.Location = *patch.Location
	}
	if patch.Category != nil {
		event.Category = *patch.Category
	}
	if patch.IsActive != nil {
		event.IsActive = *patch.IsActive
	}
	if err := domain.CheckEventDates(event.StartDate, event.EndDate); err != nil {
		return nil, err
	}

	added, err := s.processAll(ctx, uploads)
	if err != nil {
		return nil, err
	}
	event.Images = append(event.Images, added...)
	event.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, event); err != nil {
		s.discard(added)
		return nil, domain.Internal(err)
	}
	return event, nil
}

// DeleteEvent removes the stored images before the record.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return err
	}

	for _, img := range event.Images {
		if err := s.images.DeleteImage(ctx, img); err != nil {
			s.log.Warn("failed to delete event image",
				zap.String("event_id", id),
				zap.String("path", img.Original.Path),
				zap.Error(err),
			)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return domain.Internal(err)
	}
	s.log.Info("event deleted", zap.String("event_id", id))
	return nil
}

func (s *Service) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if event == nil {
		return nil, domain.NotFound(msgEventNotFound)
	}
	return event, nil
}

func (s *Service) GetEvents(ctx context.Context, filter domain.EventFilter, page domain.PageQuery) (*ports.EventList, error) {
	page = page.Normalize()
	events, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if events == nil {
		events = []domain.Event{}
	}
	return &ports.EventList{
		Events:     events,
		Pagination: domain.NewPagination(page, total).Named("totalEvents"),
	}, nil
}

// processAll runs every upload in order. On the first failure the images
// already produced by this call are deleted.
func (s *Service) processAll(ctx context.Context, uploads []ports.ImageUpload) ([]domain.ImageInfo, error) {
	images := make([]domain.ImageInfo, 0, len(uploads))
	for i, upload := range uploads {
		info, err := s.images.ProcessImage(ctx, upload)
		if err != nil {
			s.log.Warn("image processing failed",
				zap.Int("index", i),
				zap.String("filename", upload.Filename),
				zap.Error(err),
			)
			s.discard(images)
			return nil, err
		}
		images = append(images, *info)
	}
	return images, nil
}

func (s *Service) discard(images []domain.ImageInfo) {
	if len(images) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, img := range images {
		if err := s.images.DeleteImage(ctx, img); err != nil {
			s.log.Warn("failed to discard image", zap.String("path", img.Original.Path), zap.Error(err))
		}
	}
}

var _ ports.EventService = (*Service)(nil)
