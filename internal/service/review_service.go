package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bookshelf/internal/cache"
	apperrors "bookshelf/internal/errors"
	"bookshelf/internal/model"
	"bookshelf/internal/repository"
)

const reviewListCacheTTL = 5 * time.Minute

// ReviewStats summarizes a user's reviews.
type ReviewStats struct {
	Total         int64  `json:"total"`
	Rated         int64  `json:"rated"`
	AverageRating string `json:"average_rating"`
}

// ReviewService exposes owner-scoped review operations. Ownership is
// enforced here, not in the repository: mutating someone else's review
// fails with ErrForbidden even though the row exists.
type ReviewService interface {
	List(ctx context.Context, owner *model.User) ([]model.Review, error)
	Get(ctx context.Context, owner *model.User, id uint) (*model.Review, error)
	Create(ctx context.Context, owner *model.User, title, text string, rating *int) (*model.Review, error)
	Update(ctx context.Context, reviewer *model.User, id uint, title, text string, rating *int) (*model.Review, error)
	Delete(ctx context.Context, reviewer *model.User, id uint) error
	Stats(ctx context.Context, owner *model.User) (*ReviewStats, error)
}

type reviewService struct {
	repo  repository.ReviewRepository
	cache *cache.Client
}

// NewReviewService builds a ReviewService with repository and cache.
func NewReviewService(repo repository.ReviewRepository, cache *cache.Client) ReviewService {
	return &reviewService{repo: repo, cache: cache}
}

func (s *reviewService) listCacheKey(ownerID uint) string {
	return fmt.Sprintf("reviews:user:%d", ownerID)
}

// List returns the owner's reviews in insertion order, cache-aside.
func (s *reviewService) List(ctx context.Context, owner *model.User) ([]model.Review, error) {
	var cached []model.Review
	if s.cache.GetJSON(ctx, s.listCacheKey(owner.ID), &cached) {
		return cached, nil
	}

	reviews, err := s.repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetJSON(ctx, s.listCacheKey(owner.ID), reviews, reviewListCacheTTL)
	return reviews, nil
}

// Get returns a single review, with the same NotFound/Forbidden semantics
// as the mutating operations.
func (s *reviewService) Get(ctx context.Context, owner *model.User, id uint) (*model.Review, error) {
	return s.findOwned(ctx, owner, id)
}

// Create validates and persists a new review owned by owner.
func (s *reviewService) Create(ctx context.Context, owner *model.User, title, text string, rating *int) (*model.Review, error) {
	if err := validateReviewFields(title, text, rating); err != nil {
		return nil, err
	}

	review := &model.Review{
		BookTitle:  strings.TrimSpace(title),
		ReviewText: text,
		Rating:     rating,
		UserID:     owner.ID,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	_ = s.cache.Delete(ctx, s.listCacheKey(owner.ID))
	return review, nil
}

// Update overwrites the mutable fields of a review the reviewer owns.
func (s *reviewService) Update(ctx context.Context, reviewer *model.User, id uint, title, text string, rating *int) (*model.Review, error) {
	review, err := s.findOwned(ctx, reviewer, id)
	if err != nil {
		return nil, err
	}
	if err := validateReviewFields(title, text, rating); err != nil {
		return nil, err
	}

	review.BookTitle = strings.TrimSpace(title)
	review.ReviewText = text
	review.Rating = rating
	if err := s.repo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	_ = s.cache.Delete(ctx, s.listCacheKey(reviewer.ID))
	return review, nil
}

// Delete removes a review the reviewer owns.
func (s *reviewService) Delete(ctx context.Context, reviewer *model.User, id uint) error {
	review, err := s.findOwned(ctx, reviewer, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, review.ID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	_ = s.cache.Delete(ctx, s.listCacheKey(reviewer.ID))
	return nil
}

// Stats computes the owner's review count and exact average rating.
// Decimal division keeps the average free of float artifacts in JSON.
func (s *reviewService) Stats(ctx context.Context, owner *model.User) (*ReviewStats, error) {
	reviews, err := s.repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	stats := &ReviewStats{
		Total:         int64(len(reviews)),
		AverageRating: "0",
	}
	sum := int64(0)
	for _, r := range reviews {
		if r.Rating != nil {
			stats.Rated++
			sum += int64(*r.Rating)
		}
	}
	if stats.Rated > 0 {
		avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(stats.Rated))
		stats.AverageRating = avg.Round(2).String()
	}
	return stats, nil
}

// findOwned fetches a review and enforces the ownership rule. A missing
// review is NotFound; an existing review owned by someone else is Forbidden.
func (s *reviewService) findOwned(ctx context.Context, reviewer *model.User, id uint) (*model.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review.UserID != reviewer.ID {
		return nil, apperrors.ErrForbidden
	}
	return review, nil
}

func validateReviewFields(title, text string, rating *int) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.ErrTitleRequired
	}
	if strings.TrimSpace(text) == "" {
		return apperrors.ErrTextRequired
	}
	if rating != nil && (*rating < 1 || *rating > 5) {
		return apperrors.ErrRatingOutOfRange
	}
	return nil
}
