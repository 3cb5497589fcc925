package dto

import (
	"time"
)

// Personel — строка таблицы personel (мягкое удаление через aktif).
type Personel struct {
	ID               int64     `json:"id" example:"1"`                              // Идентификатор (БД)
	Ad               string    `json:"ad" example:"Ahmet"`                          // Имя
	Soyad            string    `json:"soyad" example:"Yılmaz"`                      // Фамилия
	Email            string    `json:"email" example:"ahmet.yilmaz@company.com"`    // Почта, уникальна среди всех строк
	Telefon          string    `json:"telefon" example:"05321234567"`               // Телефон
	Departman        string    `json:"departman" example:"Bilgi Teknolojileri"`     // Департамент
	Pozisyon         string    `json:"pozisyon" example:"Yazılım Mühendisi"`        // Позиция
	IseBaslamaTarihi string    `json:"iseBaslamaTarihi" example:"2024-01-15"`       // Дата выхода на работу (YYYY-MM-DD)
	Maas             *float64  `json:"maas,omitempty" example:"85000"`              // Оклад, опционально
	Aktif            bool      `json:"aktif" example:"true"`                        // false = soft delete
	OlusturmaTarihi  time.Time `json:"olusturmaTarihi"`                             // Ставится один раз при создании
	GuncellemeTarihi time.Time `json:"guncellemeTarihi"`                            // Обновляется при каждой мутации
}

type PersonelCreate struct {
	Ad               string   `json:"ad"`
	Soyad            string   `json:"soyad"`
	Email            string   `json:"email"`
	Telefon          string   `json:"telefon"`
	Departman        string   `json:"departman"`
	Pozisyon         string   `json:"pozisyon"`
	IseBaslamaTarihi string   `json:"iseBaslamaTarihi"`
	Maas             *float64 `json:"maas,omitempty"`
}

// PersonelUpdate — частичный patch: nil-поле не трогается.
type PersonelUpdate struct {
	Ad               *string  `json:"ad,omitempty"`
	Soyad            *string  `json:"soyad,omitempty"`
	Email            *string  `json:"email,omitempty"`
	Telefon          *string  `json:"telefon,omitempty"`
	Departman        *string  `json:"departman,omitempty"`
	Pozisyon         *string  `json:"pozisyon,omitempty"`
	IseBaslamaTarihi *string  `json:"iseBaslamaTarihi,omitempty"`
	Maas             *float64 `json:"maas,omitempty"`
	Aktif            *bool    `json:"aktif,omitempty"`
}
