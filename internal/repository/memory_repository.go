package repository

import (
	"sync"
	"time"

	"github.com/tempizhere/gipervygoda/internal/models"
)

// MemoryRequestRepository реализует интерфейс RequestRepository в памяти
type MemoryRequestRepository struct {
	mutex    sync.RWMutex
	requests []models.Request
	nextID   int
	rate     float64
}

// NewMemoryRequestRepository создаёт новый экземпляр MemoryRequestRepository
func NewMemoryRequestRepository(rate float64) *MemoryRequestRepository {
	return &MemoryRequestRepository{
		requests: make([]models.Request, 0),
		nextID:   1,
		rate:     rate,
	}
}

// Create сохраняет заявку в хранилище
func (r *MemoryRequestRepository) Create(req models.Request) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	req.ID = r.nextID
	r.nextID++
	r.requests = append(r.requests, req)
	return req.ID, nil
}

// Get возвращает заявку по ID, если она существует
func (r *MemoryRequestRepository) Get(id int) (models.Request, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, req := range r.requests {
		if req.ID == id {
			return req, true
		}
	}
	return models.Request{}, false
}

// GetByUser возвращает все заявки пользователя
func (r *MemoryRequestRepository) GetByUser(userID int64) ([]models.Request, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []models.Request
	for _, req := range r.requests {
		if req.UserID == userID {
			result = append(result, req)
		}
	}
	return result, nil
}

// GetByStatus возвращает заявки с указанным статусом
func (r *MemoryRequestRepository) GetByStatus(status models.RequestStatus) ([]models.Request, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []models.Request
	for _, req := range r.requests {
		if req.Status == status {
			result = append(result, req)
		}
	}
	return result, nil
}

// All возвращает все заявки
func (r *MemoryRequestRepository) All() ([]models.Request, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]models.Request, len(r.requests))
	copy(result, r.requests)
	return result, nil
}

// Update применяет частичное обновление заявки
func (r *MemoryRequestRepository) Update(id int, upd models.RequestUpdate) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := range r.requests {
		if r.requests[i].ID == id {
			applyRequestUpdate(&r.requests[i], upd, r.rate)
			return nil
		}
	}
	return ErrNotFound
}

// Delete удаляет заявку
func (r *MemoryRequestRepository) Delete(id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := range r.requests {
		if r.requests[i].ID == id {
			r.requests = append(r.requests[:i], r.requests[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// MemoryReviewRepository реализует интерфейс ReviewRepository в памяти
type MemoryReviewRepository struct {
	mutex   sync.RWMutex
	reviews []models.Review
	nextID  int
}

// NewMemoryReviewRepository создаёт новый экземпляр MemoryReviewRepository
func NewMemoryReviewRepository() *MemoryReviewRepository {
	return &MemoryReviewRepository{
		reviews: make([]models.Review, 0),
		nextID:  1,
	}
}

// Create сохраняет отзыв в хранилище
func (r *MemoryReviewRepository) Create(rev models.Review) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	rev.ID = r.nextID
	r.nextID++
	r.reviews = append(r.reviews, rev)
	return rev.ID, nil
}

// Get возвращает отзыв по ID, если он существует
func (r *MemoryReviewRepository) Get(id int) (models.Review, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, rev := range r.reviews {
		if rev.ID == id {
			return rev, true
		}
	}
	return models.Review{}, false
}

// GetByUser возвращает все отзывы пользователя
func (r *MemoryReviewRepository) GetByUser(userID int64) ([]models.Review, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []models.Review
	for _, rev := range r.reviews {
		if rev.UserID == userID {
			result = append(result, rev)
		}
	}
	return result, nil
}

// GetByStatus возвращает отзывы с указанным статусом
func (r *MemoryReviewRepository) GetByStatus(status models.ReviewStatus) ([]models.Review, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var result []models.Review
	for _, rev := range r.reviews {
		if rev.Status == status {
			result = append(result, rev)
		}
	}
	return result, nil
}

// All возвращает все отзывы
func (r *MemoryReviewRepository) All() ([]models.Review, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]models.Review, len(r.reviews))
	copy(result, r.reviews)
	return result, nil
}

// SetStatus переводит отзыв в новый статус
func (r *MemoryReviewRepository) SetStatus(id int, status models.ReviewStatus, publishedMessageID *int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := range r.reviews {
		if r.reviews[i].ID == id {
			r.reviews[i].Status = status
			if status == models.ReviewStatusApproved {
				now := time.Now()
				r.reviews[i].PublishedAt = &now
				if publishedMessageID != nil {
					r.reviews[i].PublishedMessageID = publishedMessageID
				}
			}
			return nil
		}
	}
	return ErrNotFound
}

// Delete удаляет отзыв
func (r *MemoryReviewRepository) Delete(id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := range r.reviews {
		if r.reviews[i].ID == id {
			r.reviews = append(r.reviews[:i], r.reviews[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
