package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/tarikcelik1/microservice-personnel-management/internal/dto"
)

type sendResult struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	PersonelID int64  `json:"personelId,omitempty"`
}

type retryResult struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Attempted int    `json:"attempted"`
	Succeeded int    `json:"succeeded"`
}

// @Summary Manuel bildirim gönder
// @Tags    Notification
// @Accept  json
// @Produce json
// @Param   request body dto.NotificationRequest true "Bildirim"
// @Success 200 {object} sendResult
// @Failure 400 {object} errorResponse "doğrulama hatası"
// @Router  /api/notifications/send [post]
func (s *NotificationAPI) sendNotification(ctx *fasthttp.RequestCtx) {
	var req dto.NotificationRequest

	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Errorf("json.Unmarshal: %w", err))
		return
	}

	if msg := validateNotificationRequest(req); msg != "" {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New(msg))
		return
	}

	if err := s.sender.SendDirect(ctx, req); err != nil {
		if errors.Is(err, dto.ErrDeliveryFailed) {
			writeJSON(ctx, fasthttp.StatusInternalServerError, sendResult{
				Status:  "error",
				Message: "Notification gönderilemedi: " + err.Error(),
			})
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("sender.SendDirect: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, sendResult{
		Status:     "success",
		Message:    "Notification başarıyla gönderildi",
		PersonelID: req.PersonelID,
	})
}

// @Summary Tüm bildirim kayıtları
// @Tags    Notification
// @Produce json
// @Success 200 {array} dto.NotificationLog
// @Router  /api/notifications [get]
func (s *NotificationAPI) listNotifications(ctx *fasthttp.RequestCtx) {
	s.writeLogs(ctx, "logs.ListAll", func() ([]dto.NotificationLog, error) {
		return s.logs.ListAll(ctx)
	})
}

// @Summary Sayfalama ile bildirim kayıtları
// @Tags    Notification
// @Produce json
// @Param   page    query int    false "Sayfa numarası" default(0)
// @Param   size    query int    false "Sayfa boyutu"   default(10)
// @Param   sortBy  query string false "Sıralama alanı" default(createdAt)
// @Param   sortDir query string false "Sıralama yönü"  default(desc)
// @Success 200 {object} dto.Page[dto.NotificationLog]
// @Router  /api/notifications/paged [get]
func (s *NotificationAPI) listNotificationsPaged(ctx *fasthttp.RequestCtx) {
	page := queryInt(ctx, "page", 0)
	size := queryInt(ctx, "size", 10)
	sortBy := queryStr(ctx, "sortBy", "createdAt")
	sortDir := queryStr(ctx, "sortDir", "desc")

	rows, total, err := s.logs.ListPaged(ctx, page, size, sortBy, sortDir)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("logs.ListPaged: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, dto.NewPage(rows, total, page, size))
}

// @Summary Başarısız bildirimler
// @Tags    Notification
// @Produce json
// @Success 200 {array} dto.NotificationLog
// @Router  /api/notifications/failed [get]
func (s *NotificationAPI) listFailedNotifications(ctx *fasthttp.RequestCtx) {
	s.writeLogs(ctx, "logs.ListFailed", func() ([]dto.NotificationLog, error) {
		return s.logs.ListFailed(ctx)
	})
}

// @Summary Personele ait bildirimler
// @Tags    Notification
// @Produce json
// @Param   personelId path int true "Personel ID"
// @Success 200 {array} dto.NotificationLog
// @Router  /api/notifications/personel/{personelId} [get]
func (s *NotificationAPI) listNotificationsByPersonel(ctx *fasthttp.RequestCtx) {
	personelID, err := pathID(ctx, "personelId")
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, ErrPersonelIDRequired)
		return
	}

	s.writeLogs(ctx, "logs.ListByPersonel", func() ([]dto.NotificationLog, error) {
		return s.logs.ListByPersonel(ctx, personelID)
	})
}

// @Summary Operasyon tipine göre bildirimler
// @Tags    Notification
// @Produce json
// @Param   operationType path string true "CREATE, UPDATE veya DELETE"
// @Success 200 {array} dto.NotificationLog
// @Router  /api/notifications/operation/{operationType} [get]
func (s *NotificationAPI) listNotificationsByOperation(ctx *fasthttp.RequestCtx) {
	operationType, _ := ctx.UserValue("operationType").(string)
	operationType = strings.ToUpper(strings.TrimSpace(operationType))

	s.writeLogs(ctx, "logs.ListByOperation", func() ([]dto.NotificationLog, error) {
		return s.logs.ListByOperation(ctx, operationType)
	})
}

// @Summary Gönderim durumuna göre bildirimler
// @Tags    Notification
// @Produce json
// @Param   emailSent path  string true  "true veya false"
// @Param   page      query int    false "Sayfa numarası" default(0)
// @Param   size      query int    false "Sayfa boyutu"   default(10)
// @Success 200 {object} dto.Page[dto.NotificationLog]
// @Router  /api/notifications/status/{emailSent} [get]
func (s *NotificationAPI) listNotificationsByStatus(ctx *fasthttp.RequestCtx) {
	raw, _ := ctx.UserValue("emailSent").(string)

	emailSent, err := strconv.ParseBool(raw)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Errorf("emailSent alanı true/false olmalıdır: %q", raw))
		return
	}

	page := queryInt(ctx, "page", 0)
	size := queryInt(ctx, "size", 10)

	rows, total, err := s.logs.ListByStatus(ctx, emailSent, page, size)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("logs.ListByStatus: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, dto.NewPage(rows, total, page, size))
}

// @Summary Tarih aralığındaki bildirimler
// @Tags    Notification
// @Produce json
// @Param   start query string true "Başlangıç (YYYY-MM-DD)"
// @Param   end   query string true "Bitiş (YYYY-MM-DD)"
// @Success 200 {array} dto.NotificationLog
// @Router  /api/notifications/date-range [get]
func (s *NotificationAPI) listNotificationsByDateRange(ctx *fasthttp.RequestCtx) {
	start, err := time.Parse("2006-01-02", queryStr(ctx, "start", ""))
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New("start alanı YYYY-MM-DD formatında olmalıdır"))
		return
	}

	end, err := time.Parse("2006-01-02", queryStr(ctx, "end", ""))
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New("end alanı YYYY-MM-DD formatında olmalıdır"))
		return
	}

	// конец диапазона включительно, до конца суток
	end = end.Add(24*time.Hour - time.Nanosecond)

	s.writeLogs(ctx, "logs.ListByDateRange", func() ([]dto.NotificationLog, error) {
		return s.logs.ListByDateRange(ctx, start, end)
	})
}

// @Summary Personel email adresine göre bildirimler
// @Tags    Notification
// @Produce json
// @Param   email path string true "Personel email"
// @Success 200 {array} dto.NotificationLog
// @Router  /api/notifications/email/{email} [get]
func (s *NotificationAPI) listNotificationsByEmail(ctx *fasthttp.RequestCtx) {
	email, _ := ctx.UserValue("email").(string)

	s.writeLogs(ctx, "logs.ListByPersonelEmail", func() ([]dto.NotificationLog, error) {
		return s.logs.ListByPersonelEmail(ctx, email)
	})
}

// @Summary Başarısız bildirimleri tekrar gönder
// @Tags    Notification
// @Produce json
// @Success 200 {object} retryResult
// @Router  /api/notifications/retry-failed [post]
func (s *NotificationAPI) retryFailedNotifications(ctx *fasthttp.RequestCtx) {
	attempted, succeeded, err := s.sender.RetryFailed(ctx)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("sender.RetryFailed: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, retryResult{
		Status:    "success",
		Message:   fmt.Sprintf("%d bildirimden %d tanesi tekrar gönderildi", attempted, succeeded),
		Attempted: attempted,
		Succeeded: succeeded,
	})
}

// @Summary Bildirim istatistikleri
// @Tags    Notification
// @Produce json
// @Success 200 {object} dto.NotificationStats
// @Router  /api/notifications/statistics [get]
func (s *NotificationAPI) notificationStatistics(ctx *fasthttp.RequestCtx) {
	stats, err := s.sender.Statistics(ctx)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("sender.Statistics: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, stats)
}

func (s *NotificationAPI) writeLogs(ctx *fasthttp.RequestCtx, op string, fetch func() ([]dto.NotificationLog, error)) {
	rows, err := fetch()
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("%s: %w", op, err))
		return
	}

	if rows == nil {
		rows = []dto.NotificationLog{}
	}

	writeJSON(ctx, fasthttp.StatusOK, rows)
}
