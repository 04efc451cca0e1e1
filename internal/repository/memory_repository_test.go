package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tempizhere/gipervygoda/internal/models"
)

func TestMemoryRequestRepository(t *testing.T) {
	repo := NewMemoryRequestRepository(0.4)

	// Тест 1: Создание и чтение заявки
	id, err := repo.Create(newTestRequest(42, "Phone X"))
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	req, ok := repo.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Phone X", req.Product)

	// Тест 2: Установка найденной цены пересчитывает производные поля
	foundPrice := 57000
	require.NoError(t, repo.Update(id, models.RequestUpdate{FoundPrice: &foundPrice}))
	req, ok = repo.Get(id)
	require.True(t, ok)
	require.NotNil(t, req.Economy)
	assert.Equal(t, 13000, *req.Economy)
	require.NotNil(t, req.Commission)
	assert.Equal(t, 5200, *req.Commission)

	// Тест 3: Удаление и повторное удаление
	require.NoError(t, repo.Delete(id))
	assert.ErrorIs(t, repo.Delete(id), ErrNotFound)

	// Тест 4: ID не переиспользуются
	id, err = repo.Create(newTestRequest(42, "Laptop Y"))
	require.NoError(t, err)
	assert.Equal(t, 2, id)
}

func TestMemoryReviewRepository(t *testing.T) {
	repo := NewMemoryReviewRepository()

	rev := models.Review{
		UserID:     42,
		Username:   "testuser",
		ReviewText: "Отличный сервис, нашли дешевле!",
		Rating:     5,
		Status:     models.ReviewStatusPending,
		CreatedAt:  time.Now(),
	}

	// Тест 1: Создание отзыва
	id, err := repo.Create(rev)
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	// Тест 2: Фильтр по статусу
	pending, err := repo.GetByStatus(models.ReviewStatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	// Тест 3: Одобрение заполняет дату публикации
	messageID := 7
	require.NoError(t, repo.SetStatus(id, models.ReviewStatusApproved, &messageID))
	got, ok := repo.Get(id)
	require.True(t, ok)
	assert.Equal(t, models.ReviewStatusApproved, got.Status)
	require.NotNil(t, got.PublishedAt)
	require.NotNil(t, got.PublishedMessageID)
	assert.Equal(t, 7, *got.PublishedMessageID)

	pending, err = repo.GetByStatus(models.ReviewStatusPending)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
