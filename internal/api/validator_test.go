package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tarikcelik1/microservice-personnel-management/internal/dto"
)

func validCreate() dto.PersonelCreate {
	return dto.PersonelCreate{
		Ad:               "Ahmet",
		Soyad:            "Yılmaz",
		Email:            "ahmet@company.com",
		Telefon:          "05551234567",
		Departman:        "IT",
		Pozisyon:         "Developer",
		IseBaslamaTarihi: "2024-03-15",
	}
}

func TestValidatePersonelCreate(t *testing.T) {
	t.Run("valid input passes", func(t *testing.T) {
		assert.Empty(t, validatePersonelCreate(validCreate()))
	})

	cases := []struct {
		name   string
		mutate func(*dto.PersonelCreate)
		want   string
	}{
		{"blank ad", func(in *dto.PersonelCreate) { in.Ad = "  " }, "Ad alanı boş olamaz"},
		{"short ad", func(in *dto.PersonelCreate) { in.Ad = "A" }, "Ad 2-50 karakter arasında olmalıdır"},
		{"long ad", func(in *dto.PersonelCreate) { in.Ad = strings.Repeat("a", 51) }, "Ad 2-50 karakter arasında olmalıdır"},
		{"blank soyad", func(in *dto.PersonelCreate) { in.Soyad = "" }, "Soyad alanı boş olamaz"},
		{"blank email", func(in *dto.PersonelCreate) { in.Email = "" }, "Email alanı boş olamaz"},
		{"email without at", func(in *dto.PersonelCreate) { in.Email = "ahmet.company.com" }, "Geçerli bir email adresi giriniz"},
		{"email with space", func(in *dto.PersonelCreate) { in.Email = "ahmet @company.com" }, "Geçerli bir email adresi giriniz"},
		{"blank telefon", func(in *dto.PersonelCreate) { in.Telefon = "" }, "Telefon alanı boş olamaz"},
		{"short telefon", func(in *dto.PersonelCreate) { in.Telefon = "12345" }, "Telefon numarası 10-15 karakter arasında olmalıdır"},
		{"blank departman", func(in *dto.PersonelCreate) { in.Departman = "" }, "Departman alanı boş olamaz"},
		{"blank pozisyon", func(in *dto.PersonelCreate) { in.Pozisyon = "" }, "Pozisyon alanı boş olamaz"},
		{"blank tarih", func(in *dto.PersonelCreate) { in.IseBaslamaTarihi = "" }, "İşe başlama tarihi boş olamaz"},
		{"bad tarih format", func(in *dto.PersonelCreate) { in.IseBaslamaTarihi = "15.03.2024" }, "İşe başlama tarihi YYYY-MM-DD formatında olmalıdır"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreate()
			tc.mutate(&in)
			assert.Equal(t, tc.want, validatePersonelCreate(in))
		})
	}

	t.Run("rune count not byte count", func(t *testing.T) {
		in := validCreate()
		in.Ad = strings.Repeat("ş", 50)
		assert.Empty(t, validatePersonelCreate(in))
	})
}

func TestValidatePersonelUpdate(t *testing.T) {
	t.Run("empty patch passes", func(t *testing.T) {
		assert.Empty(t, validatePersonelUpdate(dto.PersonelUpdate{}))
	})

	t.Run("present field validated", func(t *testing.T) {
		bad := "A"
		msg := validatePersonelUpdate(dto.PersonelUpdate{Ad: &bad})
		assert.Equal(t, "Ad 2-50 karakter arasında olmalıdır", msg)
	})

	t.Run("bad email rejected", func(t *testing.T) {
		bad := "not-an-email"
		msg := validatePersonelUpdate(dto.PersonelUpdate{Email: &bad})
		assert.Equal(t, "Geçerli bir email adresi giriniz", msg)
	})

	t.Run("valid patch passes", func(t *testing.T) {
		ad := "Mehmet"
		email := "mehmet@company.com"
		tarih := "2024-01-01"
		msg := validatePersonelUpdate(dto.PersonelUpdate{Ad: &ad, Email: &email, IseBaslamaTarihi: &tarih})
		assert.Empty(t, msg)
	})
}

func TestValidateNotificationRequest(t *testing.T) {
	valid := dto.NotificationRequest{
		PersonelID:    7,
		PersonelAd:    "Ahmet",
		PersonelSoyad: "Yılmaz",
		PersonelEmail: "ahmet@company.com",
		OperationType: "CREATE",
	}

	t.Run("valid request passes", func(t *testing.T) {
		assert.Empty(t, validateNotificationRequest(valid))
	})

	t.Run("missing personel id", func(t *testing.T) {
		req := valid
		req.PersonelID = 0
		assert.Equal(t, "personelId alanı geçersiz", validateNotificationRequest(req))
	})

	t.Run("blank operation type", func(t *testing.T) {
		req := valid
		req.OperationType = " "
		assert.Equal(t, "operationType alanı boş olamaz", validateNotificationRequest(req))
	})

	t.Run("bad recipient email", func(t *testing.T) {
		req := valid
		bad := "broken"
		req.RecipientEmail = &bad
		assert.Equal(t, "Geçerli bir alıcı email adresi giriniz", validateNotificationRequest(req))
	})

	t.Run("empty recipient allowed", func(t *testing.T) {
		req := valid
		empty := ""
		req.RecipientEmail = &empty
		assert.Empty(t, validateNotificationRequest(req))
	})
}
