package models

import "time"

// RequestStatus представляет статус заявки на поиск товара
type RequestStatus string

const (
	RequestStatusNew        RequestStatus = "new"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

// ReviewStatus представляет статус отзыва на модерации
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// Request представляет заявку пользователя на поиск товара дешевле
type Request struct {
	ID          int           `json:"id"`
	UserID      int64         `json:"user_id"`
	Username    string        `json:"username"`
	Product     string        `json:"product"`
	ProductURL  string        `json:"product_url"`
	KnownPrice  int           `json:"known_price"`
	City        string        `json:"city"`
	Contact     string        `json:"contact"`
	PriceSource string        `json:"price_source"`
	Status      RequestStatus `json:"status"`
	FoundPrice  *int          `json:"found_price"`
	Economy     *int          `json:"economy"`
	Commission  *int          `json:"commission"`
	Notes       string        `json:"notes"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// RequestUpdate описывает частичное обновление заявки, nil-поля не меняются
type RequestUpdate struct {
	Status     *RequestStatus
	FoundPrice *int
	Notes      *string
}

// Review представляет отзыв пользователя, ожидающий или прошедший модерацию
type Review struct {
	ID                 int          `json:"id"`
	UserID             int64        `json:"user_id"`
	Username           string       `json:"username"`
	ReviewText         string       `json:"review_text"`
	Rating             int          `json:"rating"`
	Status             ReviewStatus `json:"status"`
	CreatedAt          time.Time    `json:"created_at"`
	PublishedAt        *time.Time   `json:"published_at"`
	PublishedMessageID *int         `json:"published_message_id"`
	AdminNotes         string       `json:"admin_notes"`
}

// Stats содержит агрегированную статистику по заявкам и отзывам
type Stats struct {
	TotalRequests     int     `json:"total_requests"`
	NewRequests       int     `json:"new_requests"`
	CompletedRequests int     `json:"completed_requests"`
	TotalEconomy      int     `json:"total_economy"`
	TotalCommission   int     `json:"total_commission"`
	TotalReviews      int     `json:"total_reviews"`
	PendingReviews    int     `json:"pending_reviews"`
	ApprovedReviews   int     `json:"approved_reviews"`
	AverageRating     float64 `json:"average_rating"`
}
