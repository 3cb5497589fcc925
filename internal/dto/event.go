package dto

import (
	"time"
)

const (
	OperationCreate = "CREATE"
	OperationUpdate = "UPDATE"
	OperationDelete = "DELETE"
)

// ChangeEvent — событие изменения персонала, уходит в очередь.
// Неизменяемо после сборки; одно событие на успешную мутацию.
type ChangeEvent struct {
	PersonelID    int64     `json:"personelId"`
	Ad            string    `json:"ad"`
	Soyad         string    `json:"soyad"`
	Email         string    `json:"email"`
	OperationType string    `json:"operationType"` // CREATE | UPDATE | DELETE
	ChangedFields string    `json:"changedFields"`
	Timestamp     time.Time `json:"timestamp"`
}
