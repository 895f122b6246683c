package garage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"evexpert-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound = errors.New("Listing not found")
	ErrNoChanges       = errors.New("No valid changes provided")
	ErrInvalidDocument = errors.New("Invalid listing document")
)

// SnapshotCache holds the last raw listing snapshot. Implementations must be
// safe for concurrent use; a miss is (nil, false, nil).
//
// Invalidate advances the generation. Store must discard a snapshot whose
// generation, taken before the database read, is no longer current.
type SnapshotCache interface {
	Load(ctx context.Context) ([]domain.Listing, bool, error)
	Generation(ctx context.Context) (int64, error)
	Store(ctx context.Context, gen int64, listings []domain.Listing) error
	Invalidate(ctx context.Context) error
}

// Service is the storage side of the garage. It owns all I/O and hands
// in-memory snapshots to the pure pipeline.
type Service struct {
	DB    *gorm.DB
	Cache SnapshotCache // optional
	Now   func() time.Time
}

// ListAll returns every stored document, raw and unordered.
func (s *Service) ListAll(ctx context.Context) ([]domain.Listing, error) {
	cacheable := false
	var gen int64
	if s.Cache != nil {
		cached, ok, err := s.Cache.Load(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("garage snapshot cache read failed")
		} else if ok {
			return cached, nil
		}
		if gen, err = s.Cache.Generation(ctx); err != nil {
			log.Warn().Err(err).Msg("garage snapshot generation read failed")
		} else {
			cacheable = true
		}
	}

	var listings []domain.Listing
	if err := s.DB.WithContext(ctx).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch listings: %w", err)
	}

	if cacheable {
		if err := s.Cache.Store(ctx, gen, listings); err != nil {
			log.Warn().Err(err).Msg("garage snapshot cache write failed")
		}
	}
	return listings, nil
}

// Garage returns the canonical garage view for q.
func (s *Service) Garage(ctx context.Context, q Query) (Result, error) {
	snapshot, err := s.ListAll(ctx)
	if err != nil {
		return Result{}, err
	}
	return Catalogue(snapshot, q), nil
}

// GetListing returns one reconciled listing.
func (s *Service) GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	var doc domain.Listing
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	reconciled := Reconcile(doc)
	return &reconciled, nil
}

// Breakdown returns the cost calculator view for one listing.
func (s *Service) Breakdown(ctx context.Context, id uuid.UUID) (*BreakdownView, error) {
	listing, err := s.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	view := Present(*listing)
	return &view, nil
}

// Ingest stores a document produced by the analysis service. The timestamp
// defaults to now when the producer did not set one.
func (s *Service) Ingest(ctx context.Context, doc *domain.Listing) (*domain.Listing, error) {
	if doc.Timestamp == nil {
		ts := domain.EpochSeconds(s.now().Unix())
		doc.Timestamp = &ts
	}
	if err := s.DB.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, fmt.Errorf("Failed to create listing: %w", err)
	}
	s.invalidate(ctx)
	return doc, nil
}

// DeleteOne removes a single listing.
func (s *Service) DeleteOne(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.Listing{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrListingNotFound
	}
	s.invalidate(ctx)
	return nil
}

// DeleteAll empties the garage and reports how many documents were removed.
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	res := s.DB.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Listing{})
	if res.Error != nil {
		return 0, res.Error
	}
	s.invalidate(ctx)
	return res.RowsAffected, nil
}

// UpdateInput carries the user annotations to change; nil fields are left as they are.
type UpdateInput struct {
	Notes         *string
	Tags          *[]string
	ExternalLinks *[]domain.ExternalLink
}

// UpdateFields changes notes, tags and external links of one listing. No
// other field is writable after ingestion.
func (s *Service) UpdateFields(ctx context.Context, id uuid.UUID, in UpdateInput) (*domain.Listing, error) {
	var patch domain.Listing
	var columns []string
	if in.Notes != nil {
		patch.Notes = in.Notes
		columns = append(columns, "notes")
	}
	if in.Tags != nil {
		patch.Tags = CleanTags(*in.Tags)
		columns = append(columns, "tags")
	}
	if in.ExternalLinks != nil {
		patch.ExternalLinks = CleanLinks(*in.ExternalLinks)
		columns = append(columns, "external_links")
	}
	if len(columns) == 0 {
		return nil, ErrNoChanges
	}

	var doc domain.Listing
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	// Select forces empty tags/links to be written; struct updates run the json serializer.
	if err := s.DB.WithContext(ctx).Model(&doc).Select(columns).Updates(&patch).Error; err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.GetListing(ctx, id)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("garage snapshot cache invalidation failed")
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
