package service

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tempizhere/gipervygoda/internal/config"
	"github.com/tempizhere/gipervygoda/internal/models"
	"github.com/tempizhere/gipervygoda/internal/pricing"
	"github.com/tempizhere/gipervygoda/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrInvalidProduct      = errors.New("product name too short")
	ErrInvalidURL          = errors.New("invalid product URL")
	ErrInvalidPrice        = errors.New("price out of range")
	ErrInvalidCity         = errors.New("city name too short")
	ErrEmptyContact        = errors.New("empty contact")
	ErrInvalidReviewLength = errors.New("review length out of bounds")
	ErrRequestNotFound     = errors.New("request not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewModerated     = errors.New("review already moderated")
)

var urlPattern = regexp.MustCompile(`(?i)^https?://`)

// Publisher публикует одобренный отзыв во внешний канал и возвращает
// идентификатор отправленного сообщения
type Publisher interface {
	PublishReview(rev models.Review) (int, error)
}

// Service реализует бизнес-логику заявок, отзывов и модерации
type Service struct {
	requests repository.RequestRepository
	reviews  repository.ReviewRepository
	cfg      *config.Config
	logger   *zap.Logger
}

// NewService создаёт новый экземпляр Service
func NewService(requests repository.RequestRepository, reviews repository.ReviewRepository, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		requests: requests,
		reviews:  reviews,
		cfg:      cfg,
		logger:   logger,
	}
}

// CreateRequest проверяет черновик заявки и сохраняет её со статусом new.
// Заявка создаётся целиком или не создаётся вовсе: частично заполненные
// данные живут только в состоянии диалога.
func (s *Service) CreateRequest(draft models.Request) (models.Request, error) {
	if utf8.RuneCountInString(strings.TrimSpace(draft.Product)) < 3 {
		return models.Request{}, ErrInvalidProduct
	}
	if !urlPattern.MatchString(draft.ProductURL) {
		return models.Request{}, ErrInvalidURL
	}
	if draft.KnownPrice < pricing.MinPrice || draft.KnownPrice > pricing.MaxPrice {
		return models.Request{}, ErrInvalidPrice
	}
	if utf8.RuneCountInString(strings.TrimSpace(draft.City)) < 2 {
		return models.Request{}, ErrInvalidCity
	}
	if strings.TrimSpace(draft.Contact) == "" {
		return models.Request{}, ErrEmptyContact
	}

	now := time.Now()
	draft.Status = models.RequestStatusNew
	draft.CreatedAt = now
	draft.UpdatedAt = now

	id, err := s.requests.Create(draft)
	if err != nil {
		s.logger.Error("Failed to create request", zap.Int64("user_id", draft.UserID), zap.Error(err))
		return models.Request{}, err
	}
	draft.ID = id
	return draft, nil
}

// UserRequests возвращает все заявки пользователя
func (s *Service) UserRequests(userID int64) ([]models.Request, error) {
	return s.requests.GetByUser(userID)
}

// RequestsByStatus возвращает заявки с указанным статусом
func (s *Service) RequestsByStatus(status models.RequestStatus) ([]models.Request, error) {
	return s.requests.GetByStatus(status)
}

// SetFoundPrice записывает найденную цену; экономия и комиссия
// пересчитываются хранилищем
func (s *Service) SetFoundPrice(id, foundPrice int) (models.Request, error) {
	upd := models.RequestUpdate{FoundPrice: &foundPrice}
	if err := s.requests.Update(id, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Request{}, ErrRequestNotFound
		}
		return models.Request{}, err
	}
	req, _ := s.requests.Get(id)
	return req, nil
}

// SetRequestStatus переводит заявку в новый статус
func (s *Service) SetRequestStatus(id int, status models.RequestStatus) error {
	upd := models.RequestUpdate{Status: &status}
	if err := s.requests.Update(id, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	return nil
}

// DeleteRequest удаляет заявку
func (s *Service) DeleteRequest(id int) error {
	if err := s.requests.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	return nil
}

// CreateReview проверяет черновик отзыва и сохраняет его со статусом pending.
// Оценка вне диапазона 1..5 приводится к 5, как в исходном поведении сервиса.
func (s *Service) CreateReview(draft models.Review) (models.Review, error) {
	length := utf8.RuneCountInString(draft.ReviewText)
	if length < s.cfg.MinReviewLength || length > s.cfg.MaxReviewLength {
		return models.Review{}, ErrInvalidReviewLength
	}
	if draft.Rating < 1 || draft.Rating > 5 {
		draft.Rating = 5
	}

	draft.Status = models.ReviewStatusPending
	draft.CreatedAt = time.Now()

	id, err := s.reviews.Create(draft)
	if err != nil {
		s.logger.Error("Failed to create review", zap.Int64("user_id", draft.UserID), zap.Error(err))
		return models.Review{}, err
	}
	draft.ID = id
	return draft, nil
}

// Review возвращает отзыв по ID
func (s *Service) Review(id int) (models.Review, error) {
	rev, ok := s.reviews.Get(id)
	if !ok {
		return models.Review{}, ErrReviewNotFound
	}
	return rev, nil
}

// ApproveReview публикует отзыв через pub и переводит его в статус approved.
// При ошибке публикации статус не меняется, отзыв остаётся на модерации и
// повторное одобрение возможно. Уже рассмотренный отзыв одобрить нельзя.
func (s *Service) ApproveReview(id int, pub Publisher) (models.Review, error) {
	rev, ok := s.reviews.Get(id)
	if !ok {
		return models.Review{}, ErrReviewNotFound
	}
	if rev.Status != models.ReviewStatusPending {
		return rev, ErrReviewModerated
	}

	messageID, err := pub.PublishReview(rev)
	if err != nil {
		s.logger.Error("Failed to publish review", zap.Int("id", id), zap.Error(err))
		return rev, err
	}

	if err := s.reviews.SetStatus(id, models.ReviewStatusApproved, &messageID); err != nil {
		return rev, err
	}
	updated, _ := s.reviews.Get(id)
	return updated, nil
}

// RejectReview переводит отзыв в статус rejected без побочных эффектов.
// Уже рассмотренный отзыв отклонить нельзя.
func (s *Service) RejectReview(id int) (models.Review, error) {
	rev, ok := s.reviews.Get(id)
	if !ok {
		return models.Review{}, ErrReviewNotFound
	}
	if rev.Status != models.ReviewStatusPending {
		return rev, ErrReviewModerated
	}

	if err := s.reviews.SetStatus(id, models.ReviewStatusRejected, nil); err != nil {
		return rev, err
	}
	updated, _ := s.reviews.Get(id)
	return updated, nil
}

// PendingReviews возвращает отзывы, ожидающие модерации
func (s *Service) PendingReviews() ([]models.Review, error) {
	return s.reviews.GetByStatus(models.ReviewStatusPending)
}

// ApprovedReviews возвращает последние опубликованные отзывы, новые первыми
func (s *Service) ApprovedReviews(limit int) ([]models.Review, error) {
	approved, err := s.reviews.GetByStatus(models.ReviewStatusApproved)
	if err != nil {
		return nil, err
	}
	sort.Slice(approved, func(i, j int) bool {
		return reviewSortTime(approved[i]).After(reviewSortTime(approved[j]))
	})
	if limit > 0 && len(approved) > limit {
		approved = approved[:limit]
	}
	return approved, nil
}

func reviewSortTime(rev models.Review) time.Time {
	if rev.PublishedAt != nil {
		return *rev.PublishedAt
	}
	return rev.CreatedAt
}

// Statistics возвращает агрегированную статистику по заявкам и отзывам.
// Средний рейтинг считается только по опубликованным отзывам и равен нулю,
// когда их нет.
func (s *Service) Statistics() (models.Stats, error) {
	requests, err := s.requests.All()
	if err != nil {
		return models.Stats{}, err
	}
	reviews, err := s.reviews.All()
	if err != nil {
		return models.Stats{}, err
	}

	stats := models.Stats{
		TotalRequests: len(requests),
		TotalReviews:  len(reviews),
	}
	for _, req := range requests {
		switch req.Status {
		case models.RequestStatusNew:
			stats.NewRequests++
		case models.RequestStatusCompleted:
			stats.CompletedRequests++
		}
		if req.Economy != nil {
			stats.TotalEconomy += *req.Economy
		}
		if req.Commission != nil {
			stats.TotalCommission += *req.Commission
		}
	}

	var ratingSum, approved int
	for _, rev := range reviews {
		switch rev.Status {
		case models.ReviewStatusPending:
			stats.PendingReviews++
		case models.ReviewStatusApproved:
			stats.ApprovedReviews++
			ratingSum += rev.Rating
			approved++
		}
	}
	if approved > 0 {
		stats.AverageRating = float64(ratingSum) / float64(approved)
	}
	return stats, nil
}
