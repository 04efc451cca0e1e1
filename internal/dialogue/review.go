package dialogue

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tempizhere/gipervygoda/internal/models"
)

// ReviewState представляет состояние диалога отзыва
type ReviewState int

const (
	ReviewStateText ReviewState = iota
	ReviewStateRating
	ReviewStateDone
)

// RatingPayloadPrefix содержит префикс payload кнопок выбора оценки
const RatingPayloadPrefix = "rating_"

// ReviewDialogue реализует конечный автомат отзыва: текст -> оценка
type ReviewDialogue struct {
	state     ReviewState
	userID    int64
	username  string
	minLength int
	maxLength int
	text      string
}

// NewReviewDialogue создаёт новый диалог отзыва с границами длины текста
func NewReviewDialogue(userID int64, username string, minLength, maxLength int) *ReviewDialogue {
	return &ReviewDialogue{
		state:     ReviewStateText,
		userID:    userID,
		username:  username,
		minLength: minLength,
		maxLength: maxLength,
	}
}

// State возвращает текущее состояние диалога
func (d *ReviewDialogue) State() ReviewState {
	return d.state
}

// Start возвращает приглашение первого шага
func (d *ReviewDialogue) Start() Reply {
	return Reply{Text: fmt.Sprintf("⭐️ <b>Оставить отзыв</b>\n\n"+
		"Вы можете оценить нашу работу от 1 до 5 звезд.\n"+
		"Отзыв должен быть от %d до %d символов.\n"+
		"Ваш отзыв будет отправлен на модерацию.\n\n"+
		"📝 <b>Напишите ваш отзыв:</b>", d.minLength, d.maxLength)}
}

// Advance обрабатывает входящее событие и возвращает результат шага
func (d *ReviewDialogue) Advance(in Input) Result {
	switch d.state {
	case ReviewStateText:
		return d.advanceText(in)
	case ReviewStateRating:
		return d.advanceRating(in)
	default:
		return Result{Done: true}
	}
}

func (d *ReviewDialogue) advanceText(in Input) Result {
	text := strings.TrimSpace(in.Text)
	length := utf8.RuneCountInString(text)

	if length < d.minLength {
		return reply(fmt.Sprintf("❌ <b>Отзыв слишком короткий.</b>\n"+
			"Минимальная длина: %d символов.\n"+
			"Сейчас: %d символов.\n\n"+
			"Пожалуйста, напишите более подробный отзыв:", d.minLength, length))
	}
	if length > d.maxLength {
		return reply(fmt.Sprintf("❌ <b>Отзыв слишком длинный.</b>\n"+
			"Максимальная длина: %d символов.\n"+
			"Сейчас: %d символов.\n\n"+
			"Пожалуйста, сократите отзыв:", d.maxLength, length))
	}

	d.text = text
	d.state = ReviewStateRating
	return Result{Replies: []Reply{{
		Text: "✨ <b>Теперь оцените нашу работу:</b>\n" +
			"Выберите количество звезд (от 1 до 5):",
		Buttons: [][]Button{{
			{Label: "⭐", Payload: RatingPayloadPrefix + "1"},
			{Label: "⭐⭐", Payload: RatingPayloadPrefix + "2"},
			{Label: "⭐⭐⭐", Payload: RatingPayloadPrefix + "3"},
			{Label: "⭐⭐⭐⭐", Payload: RatingPayloadPrefix + "4"},
			{Label: "⭐⭐⭐⭐⭐", Payload: RatingPayloadPrefix + "5"},
		}},
	}}}
}

func (d *ReviewDialogue) advanceRating(in Input) Result {
	if !strings.HasPrefix(in.Payload, RatingPayloadPrefix) {
		return reply("✨ Пожалуйста, выберите оценку кнопками под сообщением.")
	}
	rating, err := strconv.Atoi(strings.TrimPrefix(in.Payload, RatingPayloadPrefix))
	if err != nil {
		return reply("✨ Пожалуйста, выберите оценку кнопками под сообщением.")
	}

	d.state = ReviewStateDone
	return Result{
		Done: true,
		Review: &models.Review{
			UserID:     d.userID,
			Username:   d.username,
			ReviewText: d.text,
			Rating:     rating,
		},
	}
}
