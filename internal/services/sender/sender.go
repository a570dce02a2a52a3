// Package services отправляет пользователям письма по событиям из очереди уведомлений.
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/virtudress/tryon-catalog/internal/lib/sl"
	"github.com/virtudress/tryon-catalog/internal/lib/smtp"
	"github.com/virtudress/tryon-catalog/internal/models"
)

// ErrBadMessage сообщение из очереди нельзя обработать, повтор не поможет.
var ErrBadMessage = errors.New("malformed notification message")

// SenderService отправляет письма через SMTP-транспорт.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendSubscriptionActivated письмо-подтверждение об активации подписки.
func (s *SenderService) SendSubscriptionActivated(body []byte) error {
	const op = "sender.SendSubscriptionActivated"

	var event models.SubscriptionActivated
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, ErrBadMessage, err)
	}
	if event.Email == "" {
		s.log.Error("subscription event without recipient", slog.String("op", op),
			slog.String("order_id", event.OrderID))
		return fmt.Errorf("%s: empty email: %w", op, ErrBadMessage)
	}

	name := event.Name
	if name == "" {
		name = "there"
	}
	subject := "Your try-on catalog subscription is active"
	bodyText := fmt.Sprintf("Hello, %s!\r\n\r\n"+
		"Thank you for your payment. Your %q plan is active from %s until %s.\r\n\r\n"+
		"Order: %s\r\n",
		name, event.PlanID,
		event.StartDate.Format("2 Jan 2006"), event.EndDate.Format("2 Jan 2006"),
		event.OrderID)

	if err := s.sendEmail([]string{event.Email}, subject, bodyText); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		_ = wc.Close()
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
