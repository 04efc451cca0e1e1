// Package dialogue содержит конечные автоматы диалогов бота.
// Автоматы не знают о транспорте: шаг принимает входящее событие и
// возвращает ответы для отправки и, по завершении, черновик записи.
package dialogue

import "github.com/tempizhere/gipervygoda/internal/models"

// Input представляет входящее событие диалога
type Input struct {
	// Text содержит текст сообщения пользователя
	Text string
	// Contact содержит номер телефона из вложения-контакта
	Contact string
	// Payload содержит данные нажатой inline-кнопки
	Payload string
}

// Button описывает inline-кнопку под сообщением
type Button struct {
	Label   string
	Payload string
}

// Reply представляет сообщение, которое транспорт должен отправить пользователю
type Reply struct {
	Text string
	// Buttons задаёт ряды inline-кнопок
	Buttons [][]Button
	// RequestContact показывает кнопку отправки контакта
	RequestContact bool
	// RemoveKeyboard убирает reply-клавиатуру
	RemoveKeyboard bool
}

// Result представляет результат одного шага диалога
type Result struct {
	Replies []Reply
	// Done означает, что диалог завершён и его состояние можно удалить
	Done bool
	// Aborted означает аварийное завершение из-за несогласованного состояния
	Aborted bool
	// Request содержит черновик заявки при успешном завершении диалога заявки
	Request *models.Request
	// Review содержит черновик отзыва при успешном завершении диалога отзыва
	Review *models.Review
}

// Dialogue определяет интерфейс активного диалога пользователя
type Dialogue interface {
	// Advance обрабатывает входящее событие и возвращает результат шага
	Advance(in Input) Result
}
