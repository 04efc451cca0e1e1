package repository

import (
	"database/sql"
	"errors"

	"github.com/tempizhere/gipervygoda/internal/models"
)

// ErrNotFound возвращается, когда записи с указанным ID нет в хранилище
var ErrNotFound = errors.New("record not found")

// RequestRepository определяет интерфейс для работы с хранилищем заявок
type RequestRepository interface {
	// Create сохраняет заявку и возвращает присвоенный ID
	Create(req models.Request) (int, error)
	// Get возвращает заявку по ID и флаг существования
	Get(id int) (models.Request, bool)
	// GetByUser возвращает все заявки пользователя
	GetByUser(userID int64) ([]models.Request, error)
	// GetByStatus возвращает заявки с указанным статусом
	GetByStatus(status models.RequestStatus) ([]models.Request, error)
	// All возвращает все заявки
	All() ([]models.Request, error)
	// Update применяет частичное обновление; при передаче найденной цены
	// пересчитывает экономию и комиссию
	Update(id int, upd models.RequestUpdate) error
	// Delete удаляет заявку
	Delete(id int) error
}

// ReviewRepository определяет интерфейс для работы с хранилищем отзывов
type ReviewRepository interface {
	// Create сохраняет отзыв и возвращает присвоенный ID
	Create(rev models.Review) (int, error)
	// Get возвращает отзыв по ID и флаг существования
	Get(id int) (models.Review, bool)
	// GetByUser возвращает все отзывы пользователя
	GetByUser(userID int64) ([]models.Review, error)
	// GetByStatus возвращает отзывы с указанным статусом
	GetByStatus(status models.ReviewStatus) ([]models.Review, error)
	// All возвращает все отзывы
	All() ([]models.Review, error)
	// SetStatus переводит отзыв в новый статус; для approved фиксирует время
	// публикации и ID сообщения в канале
	SetStatus(id int, status models.ReviewStatus, publishedMessageID *int) error
	// Delete удаляет отзыв
	Delete(id int) error
}

// Database определяет интерфейс для работы с базой данных
type Database interface {
	// Ping проверяет соединение с базой данных
	Ping() error
	// Close закрывает соединение с базой данных
	Close() error
	// Exec выполняет SQL-команду без возврата результатов
	Exec(query string, args ...interface{}) (sql.Result, error)
	// Query выполняет SQL-запрос и возвращает результаты
	Query(query string, args ...interface{}) (*sql.Rows, error)
	// QueryRow выполняет SQL-запрос и возвращает одну строку результата
	QueryRow(query string, args ...interface{}) *sql.Row
	// Begin начинает новую транзакцию
	Begin() (*sql.Tx, error)
}
