package services

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"vetclinic/internal/models"
)

// NotifierService — Telegram-уведомления персоналу. Необязательная интеграция:
// без токена сервис не создаётся, все вызовы nil-безопасны.
type NotifierService struct {
	bot *tgbotapi.BotAPI
	log *zap.Logger
}

func NewNotifierService(botToken string, log *zap.Logger) (*NotifierService, error) {
	if botToken == "" {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &NotifierService{bot: bot, log: log}, nil
}

// NotifyAppointmentAssigned — best effort: ошибка отправки логируется и не
// влияет на исход операции.
func (n *NotifierService) NotifyAppointmentAssigned(chatID int64, a *models.Appointment) {
	if n == nil || n.bot == nil || chatID == 0 {
		return
	}
	text := fmt.Sprintf(
		"Nueva cita asignada:\n%s (%s), %s %s\nFecha: %s %s\nMotivo: %s",
		a.PetName, a.PetSpecies, a.OwnerName, a.OwnerSurname,
		a.Date, a.TimeSlot, a.Description,
	)
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.log.Warn("telegram notify failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
