package api

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tarikcelik1/microservice-personnel-management/internal/dto"
)

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func validEmail(s string) bool {
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t")
}

func lengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	return n >= min && n <= max
}

// validatePersonelCreate повторяет ограничения таблицы personel:
// все поля, кроме maas, обязательны.
func validatePersonelCreate(in dto.PersonelCreate) string {
	if strings.TrimSpace(in.Ad) == "" {
		return "Ad alanı boş olamaz"
	}
	if !lengthBetween(in.Ad, 2, 50) {
		return "Ad 2-50 karakter arasında olmalıdır"
	}

	if strings.TrimSpace(in.Soyad) == "" {
		return "Soyad alanı boş olamaz"
	}
	if !lengthBetween(in.Soyad, 2, 50) {
		return "Soyad 2-50 karakter arasında olmalıdır"
	}

	if strings.TrimSpace(in.Email) == "" {
		return "Email alanı boş olamaz"
	}
	if !validEmail(in.Email) || !lengthBetween(in.Email, 3, 100) {
		return "Geçerli bir email adresi giriniz"
	}

	if strings.TrimSpace(in.Telefon) == "" {
		return "Telefon alanı boş olamaz"
	}
	if !lengthBetween(in.Telefon, 10, 15) {
		return "Telefon numarası 10-15 karakter arasında olmalıdır"
	}

	if strings.TrimSpace(in.Departman) == "" {
		return "Departman alanı boş olamaz"
	}
	if !lengthBetween(in.Departman, 1, 100) {
		return "Departman 100 karakteri aşamaz"
	}

	if strings.TrimSpace(in.Pozisyon) == "" {
		return "Pozisyon alanı boş olamaz"
	}
	if !lengthBetween(in.Pozisyon, 1, 100) {
		return "Pozisyon 100 karakteri aşamaz"
	}

	if strings.TrimSpace(in.IseBaslamaTarihi) == "" {
		return "İşe başlama tarihi boş olamaz"
	}
	if !validDate(in.IseBaslamaTarihi) {
		return "İşe başlama tarihi YYYY-MM-DD formatında olmalıdır"
	}

	return ""
}

// validatePersonelUpdate: nil-поле пропускается, присутствующее
// проверяется теми же границами, что и при создании.
func validatePersonelUpdate(in dto.PersonelUpdate) string {
	if in.Ad != nil && (strings.TrimSpace(*in.Ad) == "" || !lengthBetween(*in.Ad, 2, 50)) {
		return "Ad 2-50 karakter arasında olmalıdır"
	}
	if in.Soyad != nil && (strings.TrimSpace(*in.Soyad) == "" || !lengthBetween(*in.Soyad, 2, 50)) {
		return "Soyad 2-50 karakter arasında olmalıdır"
	}
	if in.Email != nil && (!validEmail(*in.Email) || !lengthBetween(*in.Email, 3, 100)) {
		return "Geçerli bir email adresi giriniz"
	}
	if in.Telefon != nil && !lengthBetween(*in.Telefon, 10, 15) {
		return "Telefon numarası 10-15 karakter arasında olmalıdır"
	}
	if in.Departman != nil && (strings.TrimSpace(*in.Departman) == "" || !lengthBetween(*in.Departman, 1, 100)) {
		return "Departman 100 karakteri aşamaz"
	}
	if in.Pozisyon != nil && (strings.TrimSpace(*in.Pozisyon) == "" || !lengthBetween(*in.Pozisyon, 1, 100)) {
		return "Pozisyon 100 karakteri aşamaz"
	}
	if in.IseBaslamaTarihi != nil && !validDate(*in.IseBaslamaTarihi) {
		return "İşe başlama tarihi YYYY-MM-DD formatında olmalıdır"
	}

	return ""
}

func validateNotificationRequest(req dto.NotificationRequest) string {
	if req.PersonelID <= 0 {
		return "personelId alanı geçersiz"
	}
	if strings.TrimSpace(req.OperationType) == "" {
		return "operationType alanı boş olamaz"
	}
	if req.RecipientEmail != nil && *req.RecipientEmail != "" && !validEmail(*req.RecipientEmail) {
		return "Geçerli bir alıcı email adresi giriniz"
	}

	return ""
}
