package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tempizhere/gipervygoda/internal/models"
)

func TestPostgresRequestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRequestRepository(db, 0.4, zap.NewNop())
	req := newTestRequest(42, "Phone X")

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO requests")).
		WithArgs(req.UserID, req.Username, req.Product, req.ProductURL, req.KnownPrice,
			req.City, req.Contact, req.PriceSource, req.Status, req.Notes,
			req.CreatedAt, req.UpdatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	id, err := repo.Create(req)
	require.NoError(t, err)
	assert.Equal(t, 1, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRequestRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRequestRepository(db, 0.4, zap.NewNop())
	now := time.Now()

	// Тест 1: Существующая заявка с заполненными производными полями
	rows := sqlmock.NewRows([]string{"id", "user_id", "username", "product", "product_url",
		"known_price", "city", "contact", "price_source", "status",
		"found_price", "economy", "commission", "notes", "created_at", "updated_at"}).
		AddRow(1, int64(42), "testuser", "Phone X", "https://example.com/item",
			70000, "Москва", "+79001234567", "manual", "completed",
			57000, 13000, 5200, "", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + requestColumns + " FROM requests WHERE id = $1")).
		WithArgs(1).
		WillReturnRows(rows)

	req, ok := repo.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Phone X", req.Product)
	require.NotNil(t, req.Economy)
	assert.Equal(t, 13000, *req.Economy)

	// Тест 2: Несуществующая заявка
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + requestColumns + " FROM requests WHERE id = $1")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, ok = repo.Get(99)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRequestRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresRequestRepository(db, 0.4, zap.NewNop())

	// Тест 1: Удаление существующей заявки
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM requests WHERE id = $1")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(1))

	// Тест 2: Удаление несуществующей заявки
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM requests WHERE id = $1")).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(99), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReviewRepository_SetStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresReviewRepository(db, zap.NewNop())

	// Тест 1: Одобрение записывает дату публикации и ID сообщения
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET status = $1, published_at = NOW(), published_message_id = $2 WHERE id = $3")).
		WithArgs("approved", 123, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	messageID := 123
	assert.NoError(t, repo.SetStatus(1, models.ReviewStatusApproved, &messageID))

	// Тест 2: Отклонение меняет только статус
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET status = $1 WHERE id = $2")).
		WithArgs("rejected", 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.SetStatus(2, models.ReviewStatusRejected, nil))

	// Тест 3: Несуществующий отзыв
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reviews SET status = $1 WHERE id = $2")).
		WithArgs("rejected", 99).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.SetStatus(99, models.ReviewStatusRejected, nil), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
