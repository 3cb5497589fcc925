package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tarikcelik1/microservice-personnel-management/internal/dto"
	"github.com/tarikcelik1/microservice-personnel-management/internal/mail"
)

type LogRepository interface {
	Insert(ctx context.Context, l dto.NotificationLog) (int64, error)
	MarkSent(ctx context.Context, id int64, subject, content, recipient string, sentAt time.Time) error
	ListFailed(ctx context.Context) ([]dto.NotificationLog, error)
	CountSuccessful(ctx context.Context) (int64, error)
	CountFailed(ctx context.Context) (int64, error)
}

type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// Service — конвейер уведомлений: собрать письмо, отправить, записать
// строку лога безусловно. Одна строка лога на событие/запрос.
type Service struct {
	logs    LogRepository
	mailer  Mailer
	hrEmail string
	now     func() time.Time
	log     zerolog.Logger
}

type ServiceDeps struct {
	Logs    LogRepository
	Mailer  Mailer
	HREmail string
}

func NewService(d ServiceDeps, log zerolog.Logger) *Service {
	return &Service{
		logs:    d.Logs,
		mailer:  d.Mailer,
		hrEmail: d.HREmail,
		now:     time.Now,
		log:     log.With().Str("component", "NotificationService").Logger(),
	}
}

// ProcessEvent — путь из очереди. Отказ доставки фиксируется в логе и
// не поднимается; поднимается только отказ записи лога — тогда брокер
// довезёт сообщение повторно.
func (s *Service) ProcessEvent(ctx context.Context, event dto.ChangeEvent) error {
	entry := dto.NotificationLog{
		PersonelID:    event.PersonelID,
		PersonelAd:    event.Ad,
		PersonelSoyad: event.Soyad,
		PersonelEmail: event.Email,
		OperationType: event.OperationType,
		ChangedFields: event.ChangedFields,
	}

	_ = s.attemptDelivery(&entry, s.hrEmail)

	if _, err := s.logs.Insert(ctx, entry); err != nil {
		return fmt.Errorf("logs.Insert: %w", err)
	}

	return nil
}

// SendDirect — HTTP-путь мимо очереди: лог пишется в любом случае,
// после чего отказ доставки оборачивается и возвращается наружу.
func (s *Service) SendDirect(ctx context.Context, req dto.NotificationRequest) error {
	entry := dto.NotificationLog{
		PersonelID:    req.PersonelID,
		PersonelAd:    req.PersonelAd,
		PersonelSoyad: req.PersonelSoyad,
		PersonelEmail: req.PersonelEmail,
		OperationType: req.OperationType,
		ChangedFields: req.ChangedFields,
	}

	recipient := s.hrEmail
	if req.RecipientEmail != nil && *req.RecipientEmail != "" {
		recipient = *req.RecipientEmail
	}

	deliveryErr := s.attemptDelivery(&entry, recipient)

	if _, err := s.logs.Insert(ctx, entry); err != nil {
		return fmt.Errorf("logs.Insert: %w", err)
	}

	if deliveryErr != nil {
		return fmt.Errorf("%w: %v", dto.ErrDeliveryFailed, deliveryErr)
	}

	return nil
}

// attemptDelivery заполняет entry по исходу отправки: либо флаг успеха,
// sent_at и фактические тема/тело/адресат, либо текст ошибки.
func (s *Service) attemptDelivery(entry *dto.NotificationLog, recipient string) error {
	subject := mail.Subject(entry.OperationType, entry.PersonelAd, entry.PersonelSoyad)
	body := mail.RenderBody(mail.BodyFields{
		PersonelID:    entry.PersonelID,
		Ad:            entry.PersonelAd,
		Soyad:         entry.PersonelSoyad,
		Email:         entry.PersonelEmail,
		OperationType: entry.OperationType,
		ChangedFields: entry.ChangedFields,
		Timestamp:     s.now(),
	})

	if err := s.mailer.Send(recipient, subject, body); err != nil {
		msg := "Email gönderimi başarısız: " + err.Error()
		entry.EmailSent = false
		entry.ErrorMessage = &msg

		s.log.Error().
			Err(err).
			Int64("personel_id", entry.PersonelID).
			Str("operation", entry.OperationType).
			Msg("email delivery failed")

		return err
	}

	sentAt := s.now()
	entry.EmailSent = true
	entry.SentAt = &sentAt
	entry.EmailSubject = &subject
	entry.EmailContent = &body
	entry.RecipientEmail = &recipient

	return nil
}

// RetryFailed перебирает все строки email_sent=false и повторяет
// отправку по снапшоту строки. Ошибка одной строки не останавливает
// обход; успех фиксируется построчно.
func (s *Service) RetryFailed(ctx context.Context) (attempted, succeeded int, err error) {
	failed, err := s.logs.ListFailed(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("logs.ListFailed: %w", err)
	}

	for _, l := range failed {
		attempted++

		subject := mail.Subject(l.OperationType, l.PersonelAd, l.PersonelSoyad)
		body := mail.RenderBody(mail.BodyFields{
			PersonelID:    l.PersonelID,
			Ad:            l.PersonelAd,
			Soyad:         l.PersonelSoyad,
			Email:         l.PersonelEmail,
			OperationType: l.OperationType,
			ChangedFields: l.ChangedFields,
			Timestamp:     s.now(),
		})

		recipient := s.hrEmail
		if l.RecipientEmail != nil && *l.RecipientEmail != "" {
			recipient = *l.RecipientEmail
		}

		if sendErr := s.mailer.Send(recipient, subject, body); sendErr != nil {
			s.log.Error().Err(sendErr).Int64("log_id", l.ID).Msg("retry delivery failed")
			continue
		}

		if markErr := s.logs.MarkSent(ctx, l.ID, subject, body, recipient, s.now()); markErr != nil {
			s.log.Error().Err(markErr).Int64("log_id", l.ID).Msg("retry mark sent failed")
			continue
		}

		succeeded++
		s.log.Info().Int64("log_id", l.ID).Msg("failed notification resent")
	}

	return attempted, succeeded, nil
}

func (s *Service) Statistics(ctx context.Context) (dto.NotificationStats, error) {
	successful, err := s.logs.CountSuccessful(ctx)
	if err != nil {
		return dto.NotificationStats{}, fmt.Errorf("logs.CountSuccessful: %w", err)
	}

	failed, err := s.logs.CountFailed(ctx)
	if err != nil {
		return dto.NotificationStats{}, fmt.Errorf("logs.CountFailed: %w", err)
	}

	total := successful + failed

	rate := 0.0
	if total > 0 {
		rate = float64(successful) / float64(total) * 100
	}

	return dto.NotificationStats{
		Total:       total,
		Successful:  successful,
		Failed:      failed,
		SuccessRate: rate,
	}, nil
}
