package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/tarikcelik1/microservice-personnel-management/internal/dto"
)

// Subject строит тему письма по типу операции; неизвестный тип
// получает обобщённую тему.
func Subject(operationType, ad, soyad string) string {
	fullName := ad + " " + soyad

	switch strings.ToUpper(operationType) {
	case dto.OperationCreate:
		return "Yeni Personel Eklendi: " + fullName
	case dto.OperationUpdate:
		return "Personel Bilgileri Güncellendi: " + fullName
	case dto.OperationDelete:
		return "Personel Silindi: " + fullName
	default:
		return "Personel Değişikliği: " + fullName
	}
}

type BodyFields struct {
	PersonelID    int64
	Ad            string
	Soyad         string
	Email         string
	OperationType string
	ChangedFields string
	Timestamp     time.Time
}

func (f BodyFields) OperationText() string {
	switch strings.ToUpper(f.OperationType) {
	case dto.OperationCreate:
		return "Yeni Personel Eklendi"
	case dto.OperationUpdate:
		return "Personel Bilgileri Güncellendi"
	case dto.OperationDelete:
		return "Personel Silindi"
	default:
		return f.OperationType
	}
}

func (f BodyFields) TimestampText() string {
	return f.Timestamp.Format("02.01.2006 15:04:05")
}

const bodyTemplateHTML = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>Personel Bilgileri Değişiklik Bildirimi</h2>
  <table cellpadding="6" border="1" style="border-collapse: collapse;">
    <tr><td><b>Personel ID</b></td><td>{{.PersonelID}}</td></tr>
    <tr><td><b>Ad Soyad</b></td><td>{{.Ad}} {{.Soyad}}</td></tr>
    <tr><td><b>Email</b></td><td>{{.Email}}</td></tr>
    <tr><td><b>İşlem Türü</b></td><td>{{.OperationText}}</td></tr>
    {{if .ChangedFields}}<tr><td><b>Değişen Alanlar</b></td><td>{{.ChangedFields}}</td></tr>{{end}}
    <tr><td><b>Tarih</b></td><td>{{.TimestampText}}</td></tr>
  </table>
  <p>Bu otomatik bir bildirim mesajıdır.</p>
</body>
</html>`

var bodyTemplate = template.Must(template.New("personel-notification").Parse(bodyTemplateHTML))

// RenderBody не возвращает ошибку: при сбое шаблона отдаёт
// детерминированный plain-text из тех же полей.
func RenderBody(f BodyFields) string {
	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, f); err != nil {
		return fallbackBody(f)
	}

	return buf.String()
}

func fallbackBody(f BodyFields) string {
	var b strings.Builder

	b.WriteString("Personel Bilgileri Değişiklik Bildirimi\n\n")
	fmt.Fprintf(&b, "Personel ID: %d\n", f.PersonelID)
	fmt.Fprintf(&b, "Ad Soyad: %s %s\n", f.Ad, f.Soyad)
	fmt.Fprintf(&b, "Email: %s\n", f.Email)
	fmt.Fprintf(&b, "İşlem Türü: %s\n", f.OperationText())
	if f.ChangedFields != "" {
		fmt.Fprintf(&b, "Değişen Alanlar: %s\n", f.ChangedFields)
	}
	fmt.Fprintf(&b, "Tarih: %s\n\n", f.TimestampText())
	b.WriteString("Bu otomatik bir bildirim mesajıdır.")

	return b.String()
}
