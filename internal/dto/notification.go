package dto

import (
	"time"
)

// NotificationLog — строка таблицы notification_log: ровно одна запись
// на обработанное событие или прямую отправку.
type NotificationLog struct {
	ID             int64      `json:"id"`
	PersonelID     int64      `json:"personelId"`
	PersonelAd     string     `json:"personelAd"`
	PersonelSoyad  string     `json:"personelSoyad"`
	PersonelEmail  string     `json:"personelEmail"`
	OperationType  string     `json:"operationType"`
	ChangedFields  string     `json:"changedFields"`
	EmailSent      bool       `json:"emailSent"`
	EmailSubject   *string    `json:"emailSubject,omitempty"`
	EmailContent   *string    `json:"emailContent,omitempty"`
	RecipientEmail *string    `json:"recipientEmail,omitempty"`
	ErrorMessage   *string    `json:"errorMessage,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	SentAt         *time.Time `json:"sentAt,omitempty"` // только при успешной отправке
}

// NotificationRequest — прямая отправка через HTTP, мимо очереди.
type NotificationRequest struct {
	PersonelID     int64   `json:"personelId"`
	PersonelAd     string  `json:"personelAd"`
	PersonelSoyad  string  `json:"personelSoyad"`
	PersonelEmail  string  `json:"personelEmail"`
	OperationType  string  `json:"operationType"`
	ChangedFields  string  `json:"changedFields"`
	RecipientEmail *string `json:"recipientEmail,omitempty"` // nil → адрес HR по умолчанию
}

type NotificationStats struct {
	Total       int64   `json:"total"`
	Successful  int64   `json:"successful"`
	Failed      int64   `json:"failed"`
	SuccessRate float64 `json:"successRate"` // проценты; 0 при total=0
}
