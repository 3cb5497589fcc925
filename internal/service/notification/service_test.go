package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarikcelik1/microservice-personnel-management/internal/dto"
)

type fakeLogs struct {
	inserted  []dto.NotificationLog
	failed    []dto.NotificationLog
	marked    []int64
	insertErr error
	markErr   error
	countOK   int64
	countFail int64
}

func (f *fakeLogs) Insert(_ context.Context, l dto.NotificationLog) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}

	f.inserted = append(f.inserted, l)
	return int64(len(f.inserted)), nil
}

func (f *fakeLogs) MarkSent(_ context.Context, id int64, _, _, _ string, _ time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}

	f.marked = append(f.marked, id)
	return nil
}

func (f *fakeLogs) ListFailed(_ context.Context) ([]dto.NotificationLog, error) {
	return f.failed, nil
}

func (f *fakeLogs) CountSuccessful(_ context.Context) (int64, error) { return f.countOK, nil }
func (f *fakeLogs) CountFailed(_ context.Context) (int64, error)     { return f.countFail, nil }

type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}

	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func newTestService(logs *fakeLogs, mailer *fakeMailer) *Service {
	svc := NewService(ServiceDeps{
		Logs:    logs,
		Mailer:  mailer,
		HREmail: "hr@company.com",
	}, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC) }
	return svc
}

func sampleEvent() dto.ChangeEvent {
	return dto.ChangeEvent{
		PersonelID:    7,
		Ad:            "Ahmet",
		Soyad:         "Yılmaz",
		Email:         "ahmet@company.com",
		OperationType: dto.OperationCreate,
		ChangedFields: "Yeni personel eklendi",
	}
}

func TestProcessEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("successful delivery writes a sent row", func(t *testing.T) {
		logs := &fakeLogs{}
		mailer := &fakeMailer{}
		svc := newTestService(logs, mailer)

		require.NoError(t, svc.ProcessEvent(ctx, sampleEvent()))

		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "hr@company.com", mailer.sent[0].to)
		assert.Equal(t, "Yeni Personel Eklendi: Ahmet Yılmaz", mailer.sent[0].subject)

		require.Len(t, logs.inserted, 1)
		row := logs.inserted[0]
		assert.True(t, row.EmailSent)
		require.NotNil(t, row.SentAt)
		require.NotNil(t, row.RecipientEmail)
		assert.Equal(t, "hr@company.com", *row.RecipientEmail)
		assert.Nil(t, row.ErrorMessage)
	})

	t.Run("delivery failure still writes a row and returns nil", func(t *testing.T) {
		logs := &fakeLogs{}
		mailer := &fakeMailer{err: errors.New("smtp refused")}
		svc := newTestService(logs, mailer)

		require.NoError(t, svc.ProcessEvent(ctx, sampleEvent()))

		require.Len(t, logs.inserted, 1)
		row := logs.inserted[0]
		assert.False(t, row.EmailSent)
		assert.Nil(t, row.SentAt)
		require.NotNil(t, row.ErrorMessage)
		assert.Equal(t, "Email gönderimi başarısız: smtp refused", *row.ErrorMessage)
	})

	t.Run("insert failure is returned for redelivery", func(t *testing.T) {
		logs := &fakeLogs{insertErr: errors.New("pg down")}
		mailer := &fakeMailer{}
		svc := newTestService(logs, mailer)

		require.Error(t, svc.ProcessEvent(ctx, sampleEvent()))
	})
}

func TestSendDirect(t *testing.T) {
	ctx := context.Background()

	req := dto.NotificationRequest{
		PersonelID:    7,
		PersonelAd:    "Ahmet",
		PersonelSoyad: "Yılmaz",
		PersonelEmail: "ahmet@company.com",
		OperationType: dto.OperationUpdate,
		ChangedFields: "Güncellenen alanlar: Maaş",
	}

	t.Run("defaults recipient to HR address", func(t *testing.T) {
		logs := &fakeLogs{}
		mailer := &fakeMailer{}
		svc := newTestService(logs, mailer)

		require.NoError(t, svc.SendDirect(ctx, req))
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "hr@company.com", mailer.sent[0].to)
		assert.Equal(t, "Personel Bilgileri Güncellendi: Ahmet Yılmaz", mailer.sent[0].subject)
	})

	t.Run("explicit recipient overrides HR address", func(t *testing.T) {
		logs := &fakeLogs{}
		mailer := &fakeMailer{}
		svc := newTestService(logs, mailer)

		custom := req
		recipient := "manager@company.com"
		custom.RecipientEmail = &recipient

		require.NoError(t, svc.SendDirect(ctx, custom))
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, "manager@company.com", mailer.sent[0].to)
	})

	t.Run("delivery failure logged then surfaced", func(t *testing.T) {
		logs := &fakeLogs{}
		mailer := &fakeMailer{err: errors.New("smtp refused")}
		svc := newTestService(logs, mailer)

		err := svc.SendDirect(ctx, req)
		require.ErrorIs(t, err, dto.ErrDeliveryFailed)

		require.Len(t, logs.inserted, 1)
		assert.False(t, logs.inserted[0].EmailSent)
	})
}

func TestRetryFailed(t *testing.T) {
	ctx := context.Background()

	recipient := "manager@company.com"
	failedRows := []dto.NotificationLog{
		{ID: 1, PersonelID: 7, PersonelAd: "Ahmet", PersonelSoyad: "Yılmaz", OperationType: dto.OperationCreate},
		{ID: 2, PersonelID: 8, PersonelAd: "Ayşe", PersonelSoyad: "Kaya", OperationType: dto.OperationDelete, RecipientEmail: &recipient},
	}

	t.Run("resends every failed row", func(t *testing.T) {
		logs := &fakeLogs{failed: failedRows}
		mailer := &fakeMailer{}
		svc := newTestService(logs, mailer)

		attempted, succeeded, err := svc.RetryFailed(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, attempted)
		assert.Equal(t, 2, succeeded)
		assert.Equal(t, []int64{1, 2}, logs.marked)

		require.Len(t, mailer.sent, 2)
		assert.Equal(t, "hr@company.com", mailer.sent[0].to)
		assert.Equal(t, "manager@company.com", mailer.sent[1].to)
	})

	t.Run("delivery failure skips the row without stopping", func(t *testing.T) {
		logs := &fakeLogs{failed: failedRows}
		mailer := &fakeMailer{err: errors.New("smtp refused")}
		svc := newTestService(logs, mailer)

		attempted, succeeded, err := svc.RetryFailed(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, attempted)
		assert.Zero(t, succeeded)
		assert.Empty(t, logs.marked)
	})

	t.Run("mark failure does not count as success", func(t *testing.T) {
		logs := &fakeLogs{failed: failedRows, markErr: errors.New("pg down")}
		mailer := &fakeMailer{}
		svc := newTestService(logs, mailer)

		attempted, succeeded, err := svc.RetryFailed(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, attempted)
		assert.Zero(t, succeeded)
	})

	t.Run("nothing to retry", func(t *testing.T) {
		logs := &fakeLogs{}
		mailer := &fakeMailer{}
		svc := newTestService(logs, mailer)

		attempted, succeeded, err := svc.RetryFailed(ctx)
		require.NoError(t, err)
		assert.Zero(t, attempted)
		assert.Zero(t, succeeded)
		assert.Empty(t, mailer.sent)
	})
}

func TestStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("success rate from counts", func(t *testing.T) {
		logs := &fakeLogs{countOK: 3, countFail: 1}
		svc := newTestService(logs, &fakeMailer{})

		stats, err := svc.Statistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), stats.Total)
		assert.Equal(t, int64(3), stats.Successful)
		assert.Equal(t, int64(1), stats.Failed)
		assert.InDelta(t, 75.0, stats.SuccessRate, 0.001)
	})

	t.Run("empty log yields zero rate", func(t *testing.T) {
		logs := &fakeLogs{}
		svc := newTestService(logs, &fakeMailer{})

		stats, err := svc.Statistics(ctx)
		require.NoError(t, err)
		assert.Zero(t, stats.Total)
		assert.Zero(t, stats.SuccessRate)
	})
}
