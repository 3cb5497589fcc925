package notification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tarikcelik1/microservice-personnel-management/internal/dto"
)

type PgxPoolIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repository struct {
	pool PgxPoolIface
}

func NewRepository(pool PgxPoolIface) *Repository {
	return &Repository{pool: pool}
}

const logColumns = `
id,
personel_id,
personel_ad,
personel_soyad,
personel_email,
operation_type,
changed_fields,
email_sent,
email_subject,
email_content,
recipient_email,
error_message,
created_at,
sent_at`

var sortColumns = map[string]string{
	"id":             "id",
	"personelId":     "personel_id",
	"personelAd":     "personel_ad",
	"personelSoyad":  "personel_soyad",
	"personelEmail":  "personel_email",
	"operationType":  "operation_type",
	"emailSent":      "email_sent",
	"recipientEmail": "recipient_email",
	"createdAt":      "created_at",
	"sentAt":         "sent_at",
}

// Insert пишет строку лога безусловно — и для успеха, и для отказа.
func (r *Repository) Insert(ctx context.Context, l dto.NotificationLog) (int64, error) {
	query := `
insert into notification_log
  (personel_id, personel_ad, personel_soyad, personel_email, operation_type, changed_fields,
   email_sent, email_subject, email_content, recipient_email, error_message, created_at, sent_at)
values
  (@personel_id, @personel_ad, @personel_soyad, @personel_email, @operation_type, @changed_fields,
   @email_sent, @email_subject, @email_content, @recipient_email, @error_message, now(), @sent_at)
returning id;
`
	args := pgx.NamedArgs{
		"personel_id":     l.PersonelID,
		"personel_ad":     l.PersonelAd,
		"personel_soyad":  l.PersonelSoyad,
		"personel_email":  l.PersonelEmail,
		"operation_type":  l.OperationType,
		"changed_fields":  l.ChangedFields,
		"email_sent":      l.EmailSent,
		"email_subject":   l.EmailSubject,
		"email_content":   l.EmailContent,
		"recipient_email": l.RecipientEmail,
		"error_message":   l.ErrorMessage,
		"sent_at":         l.SentAt,
	}

	var id int64
	if err := r.pool.QueryRow(ctx, query, args).Scan(&id); err != nil {
		return 0, fmt.Errorf("row.Scan: %w", err)
	}

	return id, nil
}

// MarkSent фиксирует успешный повтор: выставляет флаг и sent_at,
// чистит error_message.
func (r *Repository) MarkSent(ctx context.Context, id int64, subject, content, recipient string, sentAt time.Time) error {
	query := `
update notification_log set
  email_sent      = true,
  email_subject   = @subject,
  email_content   = @content,
  recipient_email = @recipient,
  error_message   = null,
  sent_at         = @sent_at
where id = @id;
`
	args := pgx.NamedArgs{
		"id":        id,
		"subject":   subject,
		"content":   content,
		"recipient": recipient,
		"sent_at":   sentAt,
	}

	tag, err := r.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dto.ErrNotFound
	}

	return nil
}

func (r *Repository) ListAll(ctx context.Context) ([]dto.NotificationLog, error) {
	return r.list(ctx, `select `+logColumns+` from notification_log order by id desc;`)
}

func (r *Repository) ListPaged(ctx context.Context, page, size int, sortBy, sortDir string) ([]dto.NotificationLog, int64, error) {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "created_at"
	}
	dir := "desc"
	if strings.EqualFold(sortDir, "asc") {
		dir = "asc"
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `select count(*) from notification_log`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("row.Scan: %w", err)
	}

	query := fmt.Sprintf(`select %s from notification_log order by %s %s limit $1 offset $2;`, logColumns, column, dir)

	out, err := r.list(ctx, query, size, page*size)
	if err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

// ListFailed — кандидаты на повторную отправку.
func (r *Repository) ListFailed(ctx context.Context) ([]dto.NotificationLog, error) {
	return r.list(ctx, `select `+logColumns+` from notification_log where email_sent = false order by id;`)
}

func (r *Repository) ListByPersonel(ctx context.Context, personelID int64) ([]dto.NotificationLog, error) {
	return r.list(ctx, `select `+logColumns+` from notification_log where personel_id = $1 order by id desc;`, personelID)
}

func (r *Repository) ListByOperation(ctx context.Context, operationType string) ([]dto.NotificationLog, error) {
	return r.list(ctx, `select `+logColumns+` from notification_log where operation_type = $1 order by id desc;`, operationType)
}

func (r *Repository) ListByStatus(ctx context.Context, emailSent bool, page, size int) ([]dto.NotificationLog, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `select count(*) from notification_log where email_sent = $1`, emailSent).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("row.Scan: %w", err)
	}

	query := `select ` + logColumns + ` from notification_log where email_sent = $1 order by created_at desc limit $2 offset $3;`

	out, err := r.list(ctx, query, emailSent, size, page*size)
	if err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *Repository) ListByDateRange(ctx context.Context, start, end time.Time) ([]dto.NotificationLog, error) {
	return r.list(ctx,
		`select `+logColumns+` from notification_log where created_at between $1 and $2 order by created_at desc;`,
		start, end)
}

func (r *Repository) ListByPersonelEmail(ctx context.Context, email string) ([]dto.NotificationLog, error) {
	return r.list(ctx,
		`select `+logColumns+` from notification_log where personel_email = $1 order by created_at desc;`,
		email)
}

func (r *Repository) CountSuccessful(ctx context.Context) (int64, error) {
	return r.count(ctx, `select count(*) from notification_log where email_sent = true;`)
}

func (r *Repository) CountFailed(ctx context.Context) (int64, error) {
	return r.count(ctx, `select count(*) from notification_log where email_sent = false;`)
}

func (r *Repository) count(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("row.Scan: %w", err)
	}

	return n, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]dto.NotificationLog, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var out []dto.NotificationLog
	for rows.Next() {
		var l dto.NotificationLog

		err := rows.Scan(
			&l.ID,
			&l.PersonelID,
			&l.PersonelAd,
			&l.PersonelSoyad,
			&l.PersonelEmail,
			&l.OperationType,
			&l.ChangedFields,
			&l.EmailSent,
			&l.EmailSubject,
			&l.EmailContent,
			&l.RecipientEmail,
			&l.ErrorMessage,
			&l.CreatedAt,
			&l.SentAt,
		)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return out, nil
}
