// Package services содержит воркер рассылки писем об обновлении курсов.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/mypedia/internal/lib/sl"
	"github.com/magabrotheeeer/mypedia/internal/lib/smtp"
	"github.com/magabrotheeeer/mypedia/internal/models"
)

// SubscriberRepository возвращает адресатов рассылки по курсу.
type SubscriberRepository interface {
	// ListActiveSubscriberEmails возвращает email активных подписчиков курса.
	ListActiveSubscriberEmails(ctx context.Context, courseID int) ([]string, error)
}

// Deduplicator не дает отправить рассылку по одному курсу дважды за день.
type Deduplicator interface {
	// SetNX ставит ключ, только если его ещё нет. true — ключ поставлен этим вызовом.
	SetNX(ctx context.Context, key string, expiration time.Duration) (bool, error)
}

// SenderService потребляет события обновления курсов и рассылает письма
// активным подписчикам.
type SenderService struct {
	subscribers SubscriberRepository
	dedup       Deduplicator
	transport   smtp.TransportInterface
	log         *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(subscribers SubscriberRepository, dedup Deduplicator,
	transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		subscribers: subscribers,
		dedup:       dedup,
		transport:   transport,
		log:         log,
	}
}

// HandleCourseUpdated обрабатывает событие обновления курса: один раз в день
// на курс рассылает письма активным подписчикам.
func (s *SenderService) HandleCourseUpdated(body []byte) error {
	var event models.CourseUpdatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	ctx := context.Background()

	dedupKey := fmt.Sprintf("notify:course:%d:%s", event.CourseID, event.Occurred.Format("2006-01-02"))
	fresh, err := s.dedup.SetNX(ctx, dedupKey, 48*time.Hour)
	if err != nil {
		s.log.Error("failed to check dedup key", slog.String("key", dedupKey), sl.Err(err))
		return err
	}
	if !fresh {
		s.log.Info("notification already sent today", slog.Int("course_id", event.CourseID))
		return nil
	}

	emails, err := s.subscribers.ListActiveSubscriberEmails(ctx, event.CourseID)
	if err != nil {
		s.log.Error("failed to list subscribers", slog.Int("course_id", event.CourseID), sl.Err(err))
		return err
	}
	if len(emails) == 0 {
		s.log.Info("no active subscribers for course", slog.Int("course_id", event.CourseID))
		return nil
	}

	subject := "Новые материалы"
	bodyText := fmt.Sprintf("Курс %s обновлен", event.Name)
	if err := s.sendEmail(emails, subject, bodyText); err != nil {
		return err
	}

	s.log.Info("course update notification sent",
		slog.Int("course_id", event.CourseID), slog.Int("recipients", len(emails)))
	return nil
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
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

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), "error", sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, "error", sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
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

	s.log.Info("email sent successfully", "to", to)
	return nil
}
