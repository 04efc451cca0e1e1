// Package bot реализует Telegram-транспорт: приём обновлений long polling,
// маршрутизацию команд и callback-кнопок, доставку ответов диалогов и
// публикацию одобренных отзывов в канал.
package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/tempizhere/gipervygoda/internal/config"
	"github.com/tempizhere/gipervygoda/internal/dialogue"
	"github.com/tempizhere/gipervygoda/internal/models"
	"github.com/tempizhere/gipervygoda/internal/service"
	"github.com/tempizhere/gipervygoda/internal/session"
	"go.uber.org/zap"
)

// Префиксы payload кнопок модерации
const (
	approvePayloadPrefix = "approve_"
	rejectPayloadPrefix  = "reject_"
)

// Bot связывает Telegram API с сервисом и менеджером диалогов
type Bot struct {
	api      *tgbotapi.BotAPI
	svc      *service.Service
	sessions *session.Manager
	cfg      *config.Config
	logger   *zap.Logger
}

// New создаёт новый экземпляр Bot
func New(api *tgbotapi.BotAPI, svc *service.Service, sessions *session.Manager, cfg *config.Config, logger *zap.Logger) *Bot {
	return &Bot{
		api:      api,
		svc:      svc,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run запускает цикл обработки обновлений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Bot started",
		zap.Int64("admin_id", b.cfg.AdminID),
		zap.String("channel_id", b.cfg.ChannelID))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(update.Message)
	case update.Message != nil:
		b.handleDialogueMessage(update.Message)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.send(chatID, formatWelcome(msg.From.FirstName, b.cfg.CommissionRate))
	case "help":
		b.send(chatID, formatHelp())
	case "order":
		d := dialogue.NewOrderDialogue(userID, msg.From.UserName)
		b.sessions.Set(userID, d)
		b.sendReply(chatID, d.Start())
	case "review":
		d := dialogue.NewReviewDialogue(userID, msg.From.UserName, b.cfg.MinReviewLength, b.cfg.MaxReviewLength)
		b.sessions.Set(userID, d)
		b.sendReply(chatID, d.Start())
	case "myrequest":
		requests, err := b.svc.UserRequests(userID)
		if err != nil {
			b.logger.Error("Failed to list user requests", zap.Int64("user_id", userID), zap.Error(err))
			return
		}
		b.send(chatID, formatMyRequests(requests, b.cfg.CommissionRate))
	case "reviews":
		reviews, err := b.svc.ApprovedReviews(5)
		if err != nil {
			b.logger.Error("Failed to list approved reviews", zap.Error(err))
			return
		}
		b.send(chatID, formatReviewsList(reviews, b.cfg.ChannelID))
	case "stats":
		if userID != b.cfg.AdminID {
			b.send(chatID, "❌ Эта команда только для администратора")
			return
		}
		stats, err := b.svc.Statistics()
		if err != nil {
			b.logger.Error("Failed to compute statistics", zap.Error(err))
			return
		}
		b.send(chatID, formatStats(stats))
	case "cancel":
		b.handleCancel(msg)
	}
}

func (b *Bot) handleCancel(msg *tgbotapi.Message) {
	userID := msg.From.ID
	d, ok := b.sessions.Get(userID)
	if !ok {
		return
	}
	b.sessions.Clear(userID)

	text := "❌ Оформление заявки отменено.\nЕсли передумаете - нажмите /order"
	if _, isReview := d.(*dialogue.ReviewDialogue); isReview {
		text = "❌ Создание отзыва отменено.\nЕсли передумаете - нажмите /review"
	}
	b.sendReply(msg.Chat.ID, dialogue.Reply{Text: text, RemoveKeyboard: true})
}

// handleDialogueMessage передаёт обычное сообщение активному диалогу.
// Сообщения пользователей без активного диалога игнорируются.
func (b *Bot) handleDialogueMessage(msg *tgbotapi.Message) {
	d, ok := b.sessions.Get(msg.From.ID)
	if !ok {
		return
	}

	in := dialogue.Input{Text: msg.Text}
	if msg.Contact != nil {
		in.Contact = "+" + msg.Contact.PhoneNumber
	}
	res := d.Advance(in)
	b.dispatchResult(msg.Chat.ID, msg.From.ID, res)
}

// dispatchResult отправляет ответы диалога и завершает его при необходимости
func (b *Bot) dispatchResult(chatID, userID int64, res dialogue.Result) {
	for _, r := range res.Replies {
		b.sendReply(chatID, r)
	}
	if !res.Done {
		return
	}
	b.sessions.Clear(userID)

	if res.Aborted {
		b.logger.Error("Dialogue aborted due to inconsistent state", zap.Int64("user_id", userID))
		return
	}
	if res.Request != nil {
		b.finishOrder(chatID, *res.Request)
	}
	if res.Review != nil {
		b.finishReview(chatID, 0, *res.Review)
	}
}

// finishOrder сохраняет заявку, подтверждает её пользователю и уведомляет
// оператора. Сбой уведомления оператора логируется и проглатывается.
func (b *Bot) finishOrder(chatID int64, draft models.Request) {
	req, err := b.svc.CreateRequest(draft)
	if err != nil {
		b.logger.Error("Failed to create request", zap.Int64("user_id", draft.UserID), zap.Error(err))
		b.sendReply(chatID, dialogue.Reply{
			Text: "❌ <b>Произошла ошибка при обработке заявки.</b>\n" +
				"Пожалуйста, начните заново с команды /order",
			RemoveKeyboard: true,
		})
		return
	}

	b.sendReply(chatID, dialogue.Reply{Text: formatRequestAccepted(req), RemoveKeyboard: true})

	if err := b.send(b.cfg.AdminID, formatRequestNotice(req)); err != nil {
		b.logger.Warn("Failed to notify operator about new request", zap.Int("id", req.ID), zap.Error(err))
	}
}

// finishReview сохраняет отзыв, подтверждает его автору и отправляет
// оператору запрос модерации с кнопками решения. Если известен messageID
// сообщения с кнопками оценки, подтверждение редактирует его.
func (b *Bot) finishReview(chatID int64, messageID int, draft models.Review) {
	rev, err := b.svc.CreateReview(draft)
	if err != nil {
		b.logger.Error("Failed to create review", zap.Int64("user_id", draft.UserID), zap.Error(err))
		b.send(chatID, "❌ <b>Произошла ошибка при сохранении отзыва.</b>\nПожалуйста, начните заново с команды /review")
		return
	}

	if messageID != 0 {
		b.editMessage(chatID, messageID, formatReviewAccepted(rev), nil)
	} else {
		b.send(chatID, formatReviewAccepted(rev))
	}

	idSuffix := strconv.Itoa(rev.ID)
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Опубликовать", approvePayloadPrefix+idSuffix),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", rejectPayloadPrefix+idSuffix),
		),
	)
	msg := tgbotapi.NewMessage(b.cfg.AdminID, formatModerationNotice(rev))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send review to operator", zap.Int("id", rev.ID), zap.Error(err))
	}
}

func (b *Bot) handleCallback(query *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback query", zap.Error(err))
	}
	if query.Message == nil {
		return
	}

	data := query.Data
	switch {
	case strings.HasPrefix(data, dialogue.RatingPayloadPrefix):
		b.handleRatingCallback(query)
	case strings.HasPrefix(data, approvePayloadPrefix), strings.HasPrefix(data, rejectPayloadPrefix):
		// Решения модерации принимает только оператор
		if query.From.ID != b.cfg.AdminID {
			return
		}
		b.handleModerationCallback(query)
	}
}

func (b *Bot) handleRatingCallback(query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	d, ok := b.sessions.Get(userID)
	if !ok {
		return
	}

	res := d.Advance(dialogue.Input{Payload: query.Data})
	for _, r := range res.Replies {
		b.sendReply(query.Message.Chat.ID, r)
	}
	if !res.Done {
		return
	}
	b.sessions.Clear(userID)
	if res.Review != nil {
		b.finishReview(query.Message.Chat.ID, query.Message.MessageID, *res.Review)
	}
}

func (b *Bot) handleModerationCallback(query *tgbotapi.CallbackQuery) {
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	approve := strings.HasPrefix(query.Data, approvePayloadPrefix)
	idStr := strings.TrimPrefix(strings.TrimPrefix(query.Data, approvePayloadPrefix), rejectPayloadPrefix)
	reviewID, err := strconv.Atoi(idStr)
	if err != nil {
		b.logger.Warn("Malformed moderation payload", zap.String("data", query.Data))
		return
	}

	if approve {
		b.approveReview(chatID, messageID, reviewID)
	} else {
		b.rejectReview(chatID, messageID, reviewID)
	}
}

func (b *Bot) approveReview(chatID int64, messageID, reviewID int) {
	rev, err := b.svc.ApproveReview(reviewID, b)
	switch {
	case errors.Is(err, service.ErrReviewNotFound):
		b.editMessage(chatID, messageID, "❌ Отзыв не найден", nil)
		return
	case errors.Is(err, service.ErrReviewModerated):
		b.editMessage(chatID, messageID,
			"⚠️ <b>Отзыв #"+strconv.Itoa(reviewID)+" уже рассмотрен.</b>", nil)
		return
	case err != nil:
		// Публикация не удалась, отзыв остаётся на модерации
		b.editMessage(chatID, messageID,
			"❌ <b>Ошибка при публикации:</b>\n"+truncate(err.Error(), 100)+"\n\n"+
				"Проверьте, что бот добавлен как администратор канала "+b.cfg.ChannelID, nil)
		return
	}

	messageURL := ""
	if rev.PublishedMessageID != nil {
		messageURL = channelMessageURL(b.cfg.ChannelID, *rev.PublishedMessageID)
	}
	b.editMessage(chatID, messageID, formatApprovedNotice(rev, messageURL), nil)

	// Уведомляем автора, сбой не критичен
	if err := b.send(rev.UserID, formatPublishedNotice()); err != nil {
		b.logger.Warn("Failed to notify review author", zap.Int("id", rev.ID), zap.Error(err))
	}
}

func (b *Bot) rejectReview(chatID int64, messageID, reviewID int) {
	rev, err := b.svc.RejectReview(reviewID)
	switch {
	case errors.Is(err, service.ErrReviewNotFound):
		b.editMessage(chatID, messageID, "❌ Отзыв не найден", nil)
		return
	case errors.Is(err, service.ErrReviewModerated):
		b.editMessage(chatID, messageID,
			"⚠️ <b>Отзыв #"+strconv.Itoa(reviewID)+" уже рассмотрен.</b>", nil)
		return
	case err != nil:
		b.logger.Error("Failed to reject review", zap.Int("id", reviewID), zap.Error(err))
		return
	}
	b.editMessage(chatID, messageID, formatRejectedNotice(rev), nil)
}

// PublishReview реализует service.Publisher: отправляет отзыв в канал и
// возвращает ID опубликованного сообщения
func (b *Bot) PublishReview(rev models.Review) (int, error) {
	text := formatChannelPost(rev)

	var msg tgbotapi.MessageConfig
	if chatID, err := strconv.ParseInt(b.cfg.ChannelID, 10, 64); err == nil {
		msg = tgbotapi.NewMessage(chatID, text)
	} else {
		msg = tgbotapi.NewMessageToChannel(b.cfg.ChannelID, text)
	}
	msg.ParseMode = tgbotapi.ModeHTML

	sent, err := b.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// send отправляет HTML-сообщение без клавиатуры
func (b *Bot) send(chatID int64, text string) error {
	return b.sendReply(chatID, dialogue.Reply{Text: text})
}

// sendReply отправляет ответ диалога, транслируя его разметку в Telegram
func (b *Bot) sendReply(chatID int64, r dialogue.Reply) error {
	msg := tgbotapi.NewMessage(chatID, r.Text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	switch {
	case len(r.Buttons) > 0:
		rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(r.Buttons))
		for _, row := range r.Buttons {
			buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
			for _, btn := range row {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Payload))
			}
			rows = append(rows, buttons)
		}
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	case r.RequestContact:
		keyboard := tgbotapi.NewReplyKeyboard(
			tgbotapi.NewKeyboardButtonRow(
				tgbotapi.NewKeyboardButtonContact("📱 Отправить мой контакт"),
			),
		)
		keyboard.OneTimeKeyboard = true
		keyboard.ResizeKeyboard = true
		msg.ReplyMarkup = keyboard
	case r.RemoveKeyboard:
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	}

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
		return err
	}
	return nil
}

// editMessage редактирует ранее отправленное сообщение
func (b *Bot) editMessage(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = markup
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Error("Failed to edit message", zap.Int64("chat_id", chatID), zap.Int("message_id", messageID), zap.Error(err))
	}
}
