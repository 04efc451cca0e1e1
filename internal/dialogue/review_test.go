package dialogue

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewDialogue_TextValidation(t *testing.T) {
	d := NewReviewDialogue(42, "testuser", 10, 1000)

	// Тест 1: Слишком короткий текст отклоняется
	res := d.Advance(Input{Text: "коротко"})
	assert.False(t, res.Done)
	assert.Equal(t, ReviewStateText, d.State())
	require.Len(t, res.Replies, 1)
	assert.Contains(t, res.Replies[0].Text, "слишком короткий")

	// Тест 2: Слишком длинный текст отклоняется
	res = d.Advance(Input{Text: strings.Repeat("а", 1001)})
	assert.Equal(t, ReviewStateText, d.State())
	assert.Contains(t, res.Replies[0].Text, "слишком длинный")

	// Тест 3: Корректный текст продвигает к выбору оценки с пятью кнопками
	res = d.Advance(Input{Text: "Отличный сервис, нашли дешевле!"})
	assert.Equal(t, ReviewStateRating, d.State())
	require.Len(t, res.Replies, 1)
	require.Len(t, res.Replies[0].Buttons, 1)
	require.Len(t, res.Replies[0].Buttons[0], 5)
	assert.Equal(t, "rating_1", res.Replies[0].Buttons[0][0].Payload)
	assert.Equal(t, "rating_5", res.Replies[0].Buttons[0][4].Payload)
}

func TestReviewDialogue_RatingSelection(t *testing.T) {
	d := NewReviewDialogue(42, "testuser", 10, 1000)
	d.Advance(Input{Text: "Отличный сервис, нашли дешевле!"})

	// Тест 1: Текст вместо кнопки не продвигает диалог
	res := d.Advance(Input{Text: "пять"})
	assert.False(t, res.Done)
	assert.Equal(t, ReviewStateRating, d.State())

	// Тест 2: Некорректный payload не продвигает диалог
	res = d.Advance(Input{Payload: "rating_x"})
	assert.False(t, res.Done)

	// Тест 3: Выбор оценки завершает диалог с черновиком отзыва
	res = d.Advance(Input{Payload: "rating_4"})
	assert.True(t, res.Done)
	require.NotNil(t, res.Review)
	assert.Equal(t, int64(42), res.Review.UserID)
	assert.Equal(t, "testuser", res.Review.Username)
	assert.Equal(t, "Отличный сервис, нашли дешевле!", res.Review.ReviewText)
	assert.Equal(t, 4, res.Review.Rating)
}

func TestReviewDialogue_BoundsAreInclusive(t *testing.T) {
	// Граничные длины принимаются
	d := NewReviewDialogue(1, "", 10, 20)
	res := d.Advance(Input{Text: strings.Repeat("a", 10)})
	assert.Equal(t, ReviewStateRating, d.State())
	assert.False(t, res.Done)

	d = NewReviewDialogue(1, "", 10, 20)
	d.Advance(Input{Text: strings.Repeat("a", 20)})
	assert.Equal(t, ReviewStateRating, d.State())
}
