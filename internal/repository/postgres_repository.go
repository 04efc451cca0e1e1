package repository

import (
	"database/sql"

	"github.com/tempizhere/gipervygoda/internal/models"
	"go.uber.org/zap"
)

// scanner объединяет *sql.Row и *sql.Rows для общих функций сканирования
type scanner interface {
	Scan(dest ...interface{}) error
}

const requestColumns = "id, user_id, username, product, product_url, known_price, city, contact, price_source, status, found_price, economy, commission, notes, created_at, updated_at"

const reviewColumns = "id, user_id, username, review_text, rating, status, created_at, published_at, published_message_id, admin_notes"

// scanRequest читает одну строку таблицы requests в модель
func scanRequest(s scanner) (models.Request, error) {
	var req models.Request
	var foundPrice, economy, commission sql.NullInt64
	err := s.Scan(&req.ID, &req.UserID, &req.Username, &req.Product, &req.ProductURL,
		&req.KnownPrice, &req.City, &req.Contact, &req.PriceSource, &req.Status,
		&foundPrice, &economy, &commission, &req.Notes, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return models.Request{}, err
	}
	if foundPrice.Valid {
		v := int(foundPrice.Int64)
		req.FoundPrice = &v
	}
	if economy.Valid {
		v := int(economy.Int64)
		req.Economy = &v
	}
	if commission.Valid {
		v := int(commission.Int64)
		req.Commission = &v
	}
	return req, nil
}

// scanReview читает одну строку таблицы reviews в модель
func scanReview(s scanner) (models.Review, error) {
	var rev models.Review
	var publishedAt sql.NullTime
	var publishedMessageID sql.NullInt64
	err := s.Scan(&rev.ID, &rev.UserID, &rev.Username, &rev.ReviewText, &rev.Rating,
		&rev.Status, &rev.CreatedAt, &publishedAt, &publishedMessageID, &rev.AdminNotes)
	if err != nil {
		return models.Review{}, err
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		rev.PublishedAt = &t
	}
	if publishedMessageID.Valid {
		v := int(publishedMessageID.Int64)
		rev.PublishedMessageID = &v
	}
	return rev, nil
}

// PostgresRequestRepository реализует интерфейс RequestRepository поверх PostgreSQL
type PostgresRequestRepository struct {
	db     Database
	rate   float64
	logger *zap.Logger
}

// NewPostgresRequestRepository создаёт новый экземпляр PostgresRequestRepository
func NewPostgresRequestRepository(db Database, rate float64, logger *zap.Logger) *PostgresRequestRepository {
	return &PostgresRequestRepository{db: db, rate: rate, logger: logger}
}

// Create сохраняет заявку в базе данных
func (r *PostgresRequestRepository) Create(req models.Request) (int, error) {
	var id int
	err := r.db.QueryRow(
		"INSERT INTO requests (user_id, username, product, product_url, known_price, city, contact, price_source, status, notes, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id",
		req.UserID, req.Username, req.Product, req.ProductURL, req.KnownPrice,
		req.City, req.Contact, req.PriceSource, req.Status, req.Notes,
		req.CreatedAt, req.UpdatedAt,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to save request to database", zap.Int64("user_id", req.UserID), zap.Error(err))
		return 0, err
	}
	return id, nil
}

// Get возвращает заявку по ID, если она существует
func (r *PostgresRequestRepository) Get(id int) (models.Request, bool) {
	row := r.db.QueryRow("SELECT "+requestColumns+" FROM requests WHERE id = $1", id)
	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return models.Request{}, false
	}
	if err != nil {
		r.logger.Error("Failed to get request from database", zap.Int("id", id), zap.Error(err))
		return models.Request{}, false
	}
	return req, true
}

// GetByUser возвращает все заявки пользователя
func (r *PostgresRequestRepository) GetByUser(userID int64) ([]models.Request, error) {
	return r.queryRequests("SELECT "+requestColumns+" FROM requests WHERE user_id = $1 ORDER BY id", userID)
}

// GetByStatus возвращает заявки с указанным статусом
func (r *PostgresRequestRepository) GetByStatus(status models.RequestStatus) ([]models.Request, error) {
	return r.queryRequests("SELECT "+requestColumns+" FROM requests WHERE status = $1 ORDER BY id", string(status))
}

// All возвращает все заявки
func (r *PostgresRequestRepository) All() ([]models.Request, error) {
	return r.queryRequests("SELECT " + requestColumns + " FROM requests ORDER BY id")
}

func (r *PostgresRequestRepository) queryRequests(query string, args ...interface{}) ([]models.Request, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to query requests", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

// Update применяет частичное обновление заявки
func (r *PostgresRequestRepository) Update(id int, upd models.RequestUpdate) error {
	req, ok := r.Get(id)
	if !ok {
		return ErrNotFound
	}
	applyRequestUpdate(&req, upd, r.rate)

	res, err := r.db.Exec(
		"UPDATE requests SET status = $1, found_price = $2, economy = $3, commission = $4, notes = $5, updated_at = $6 WHERE id = $7",
		req.Status, nullableInt(req.FoundPrice), nullableInt(req.Economy),
		nullableInt(req.Commission), req.Notes, req.UpdatedAt, id,
	)
	if err != nil {
		r.logger.Error("Failed to update request", zap.Int("id", id), zap.Error(err))
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет заявку
func (r *PostgresRequestRepository) Delete(id int) error {
	res, err := r.db.Exec("DELETE FROM requests WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to delete request", zap.Int("id", id), zap.Error(err))
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// PostgresReviewRepository реализует интерфейс ReviewRepository поверх PostgreSQL
type PostgresReviewRepository struct {
	db     Database
	logger *zap.Logger
}

// NewPostgresReviewRepository создаёт новый экземпляр PostgresReviewRepository
func NewPostgresReviewRepository(db Database, logger *zap.Logger) *PostgresReviewRepository {
	return &PostgresReviewRepository{db: db, logger: logger}
}

// Create сохраняет отзыв в базе данных
func (r *PostgresReviewRepository) Create(rev models.Review) (int, error) {
	var id int
	err := r.db.QueryRow(
		"INSERT INTO reviews (user_id, username, review_text, rating, status, created_at, admin_notes) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id",
		rev.UserID, rev.Username, rev.ReviewText, rev.Rating, rev.Status, rev.CreatedAt, rev.AdminNotes,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to save review to database", zap.Int64("user_id", rev.UserID), zap.Error(err))
		return 0, err
	}
	return id, nil
}

// Get возвращает отзыв по ID, если он существует
func (r *PostgresReviewRepository) Get(id int) (models.Review, bool) {
	row := r.db.QueryRow("SELECT "+reviewColumns+" FROM reviews WHERE id = $1", id)
	rev, err := scanReview(row)
	if err == sql.ErrNoRows {
		return models.Review{}, false
	}
	if err != nil {
		r.logger.Error("Failed to get review from database", zap.Int("id", id), zap.Error(err))
		return models.Review{}, false
	}
	return rev, true
}

// GetByUser возвращает все отзывы пользователя
func (r *PostgresReviewRepository) GetByUser(userID int64) ([]models.Review, error) {
	return r.queryReviews("SELECT "+reviewColumns+" FROM reviews WHERE user_id = $1 ORDER BY id", userID)
}

// GetByStatus возвращает отзывы с указанным статусом
func (r *PostgresReviewRepository) GetByStatus(status models.ReviewStatus) ([]models.Review, error) {
	return r.queryReviews("SELECT "+reviewColumns+" FROM reviews WHERE status = $1 ORDER BY id", string(status))
}

// All возвращает все отзывы
func (r *PostgresReviewRepository) All() ([]models.Review, error) {
	return r.queryReviews("SELECT " + reviewColumns + " FROM reviews ORDER BY id")
}

func (r *PostgresReviewRepository) queryReviews(query string, args ...interface{}) ([]models.Review, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.Error("Failed to query reviews", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []models.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rev)
	}
	return result, rows.Err()
}

// SetStatus переводит отзыв в новый статус
func (r *PostgresReviewRepository) SetStatus(id int, status models.ReviewStatus, publishedMessageID *int) error {
	var res sql.Result
	var err error
	if status == models.ReviewStatusApproved {
		res, err = r.db.Exec(
			"UPDATE reviews SET status = $1, published_at = NOW(), published_message_id = $2 WHERE id = $3",
			string(status), nullableInt(publishedMessageID), id,
		)
	} else {
		res, err = r.db.Exec("UPDATE reviews SET status = $1 WHERE id = $2", string(status), id)
	}
	if err != nil {
		r.logger.Error("Failed to update review status", zap.Int("id", id), zap.Error(err))
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет отзыв
func (r *PostgresReviewRepository) Delete(id int) error {
	res, err := r.db.Exec("DELETE FROM reviews WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to delete review", zap.Int("id", id), zap.Error(err))
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
