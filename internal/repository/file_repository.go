package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tempizhere/gipervygoda/internal/models"
	"github.com/tempizhere/gipervygoda/internal/pricing"
	"go.uber.org/zap"
)

// requestsDocument представляет документ в JSON-файле заявок
type requestsDocument struct {
	Requests []models.Request `json:"requests"`
}

// reviewsDocument представляет документ в JSON-файле отзывов
type reviewsDocument struct {
	Reviews []models.Review `json:"reviews"`
}

// applyRequestUpdate применяет частичное обновление к заявке и пересчитывает
// производные поля, если передана найденная цена
func applyRequestUpdate(req *models.Request, upd models.RequestUpdate, rate float64) {
	if upd.Status != nil {
		req.Status = *upd.Status
	}
	if upd.Notes != nil {
		req.Notes = *upd.Notes
	}
	if upd.FoundPrice != nil && req.KnownPrice > 0 {
		foundPrice := *upd.FoundPrice
		economy := pricing.Economy(req.KnownPrice, foundPrice)
		req.FoundPrice = &foundPrice
		req.Economy = &economy
		if economy > 0 {
			commission := pricing.Commission(economy, rate)
			req.Commission = &commission
		}
	}
	req.UpdatedAt = time.Now()
}

// FileRequestRepository реализует интерфейс RequestRepository поверх
// JSON-файла, который переписывается целиком при каждой мутации
type FileRequestRepository struct {
	mutex    sync.RWMutex
	filePath string
	rate     float64
	requests []models.Request
	nextID   int
	logger   *zap.Logger
}

// NewFileRequestRepository создаёт новый экземпляр FileRequestRepository.
// Отсутствующий файл трактуется как пустая коллекция и создаётся сразу,
// повреждённый файл считается фатальной ошибкой.
func NewFileRequestRepository(filePath string, rate float64, logger *zap.Logger) (*FileRequestRepository, error) {
	repo := &FileRequestRepository{
		filePath: filePath,
		rate:     rate,
		requests: make([]models.Request, 0),
		nextID:   1,
		logger:   logger,
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			if err := repo.persist(); err != nil {
				return nil, err
			}
			return repo, nil
		}
		return nil, err
	}

	var doc requestsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}
	if doc.Requests != nil {
		repo.requests = doc.Requests
	}
	for _, req := range repo.requests {
		if req.ID >= repo.nextID {
			repo.nextID = req.ID + 1
		}
	}
	return repo, nil
}

// persist переписывает файл заявок целиком
func (r *FileRequestRepository) persist() error {
	data, err := json.MarshalIndent(requestsDocument{Requests: r.requests}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.filePath, data, 0644)
}

// Create сохраняет заявку в хранилище и файл
func (r *FileRequestRepository) Create(req models.Request) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	req.ID = r.nextID
	r.requests = append(r.requests, req)
	if err := r.persist(); err != nil {
		r.requests = r.requests[:len(r.requests)-1]
		return 0, err
	}
	r.nextID++
	return req.ID, nil
}

// Get возвращает заявку по ID, если она существует
func (r *FileRequestRepository) Get(id int) (models.Request, bool) {
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
func (r *FileRequestRepository) GetByUser(userID int64) ([]models.Request, error) {
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
func (r *FileRequestRepository) GetByStatus(status models.RequestStatus) ([]models.Request, error) {
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
func (r *FileRequestRepository) All() ([]models.Request, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]models.Request, len(r.requests))
	copy(result, r.requests)
	return result, nil
}

// Update применяет частичное обновление заявки и переписывает файл
func (r *FileRequestRepository) Update(id int, upd models.RequestUpdate) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := range r.requests {
		if r.requests[i].ID == id {
			applyRequestUpdate(&r.requests[i], upd, r.rate)
			return r.persist()
		}
	}
	return ErrNotFound
}

// Delete удаляет заявку и переписывает файл
func (r *FileRequestRepository) Delete(id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := range r.requests {
		if r.requests[i].ID == id {
			r.requests = append(r.requests[:i], r.requests[i+1:]...)
			return r.persist()
		}
	}
	return ErrNotFound
}

// FileReviewRepository реализует интерфейс ReviewRepository поверх JSON-файла
type FileReviewRepository struct {
	mutex    sync.RWMutex
	filePath string
	reviews  []models.Review
	nextID   int
	logger   *zap.Logger
}

// NewFileReviewRepository создаёт новый экземпляр FileReviewRepository
func NewFileReviewRepository(filePath string, logger *zap.Logger) (*FileReviewRepository, error) {
	repo := &FileReviewRepository{
		filePath: filePath,
		reviews:  make([]models.Review, 0),
		nextID:   1,
		logger:   logger,
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			if err := repo.persist(); err != nil {
				return nil, err
			}
			return repo, nil
		}
		return nil, err
	}

	var doc reviewsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}
	if doc.Reviews != nil {
		repo.reviews = doc.Reviews
	}
	for _, rev := range repo.reviews {
		if rev.ID >= repo.nextID {
			repo.nextID = rev.ID + 1
		}
	}
	return repo, nil
}

// persist переписывает файл отзывов целиком
func (r *FileReviewRepository) persist() error {
	data, err := json.MarshalIndent(reviewsDocument{Reviews: r.reviews}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.filePath, data, 0644)
}

// Create сохраняет отзыв в хранилище и файл
func (r *FileReviewRepository) Create(rev models.Review) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	rev.ID = r.nextID
	r.reviews = append(r.reviews, rev)
	if err := r.persist(); err != nil {
		r.reviews = r.reviews[:len(r.reviews)-1]
		return 0, err
	}
	r.nextID++
	return rev.ID, nil
}

// Get возвращает отзыв по ID, если он существует
func (r *FileReviewRepository) Get(id int) (models.Review, bool) {
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
func (r *FileReviewRepository) GetByUser(userID int64) ([]models.Review, error) {
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
func (r *FileReviewRepository) GetByStatus(status models.ReviewStatus) ([]models.Review, error) {
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
func (r *FileReviewRepository) All() ([]models.Review, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]models.Review, len(r.reviews))
	copy(result, r.reviews)
	return result, nil
}

// SetStatus переводит отзыв в новый статус и переписывает файл
func (r *FileReviewRepository) SetStatus(id int, status models.ReviewStatus, publishedMessageID *int) error {
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
			return r.persist()
		}
	}
	return ErrNotFound
}

// Delete удаляет отзыв и переписывает файл
func (r *FileReviewRepository) Delete(id int) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i := range r.reviews {
		if r.reviews[i].ID == id {
			r.reviews = append(r.reviews[:i], r.reviews[i+1:]...)
			return r.persist()
		}
	}
	return ErrNotFound
}
