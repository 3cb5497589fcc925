package personel

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tarikcelik1/microservice-personnel-management/internal/dto"
)

type Repository interface {
	Create(ctx context.Context, in dto.PersonelCreate) (*dto.Personel, error)
	Update(ctx context.Context, p dto.Personel) (*dto.Personel, error)
	SoftDelete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*dto.Personel, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmailExcept(ctx context.Context, email string, id int64) (bool, error)
	List(ctx context.Context) ([]dto.Personel, error)
	ListPaged(ctx context.Context, page, size int, sortBy, sortDir string) ([]dto.Personel, int64, error)
	Search(ctx context.Context, searchText string, page, size int) ([]dto.Personel, int64, error)
	Departments(ctx context.Context) ([]string, error)
	Positions(ctx context.Context) ([]string, error)
}

type Publisher interface {
	PublishChange(ctx context.Context, event dto.ChangeEvent) error
}

// Service — мутации персонала + события изменений.
// Схема commit-then-publish: событие уходит после фиксации мутации,
// отказ публикации не откатывает запись.
type Service struct {
	repo      Repository
	publisher Publisher
	log       zerolog.Logger
}

func NewService(repo Repository, publisher Publisher, log zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log.With().Str("component", "PersonelService").Logger(),
	}
}

func (s *Service) Create(ctx context.Context, in dto.PersonelCreate) (*dto.Personel, error) {
	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("repo.ExistsByEmail: %w", err)
	}
	if exists {
		return nil, dto.ErrDuplicateEmail
	}

	created, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("personel_id", created.ID).Str("email", created.Email).Msg("personel created")

	s.publish(ctx, created, dto.OperationCreate, "Yeni personel eklendi")

	return created, nil
}

// Update применяет частичный patch и собирает список изменённых полей
// в фиксированном порядке проверки. Пустой diff — мутация сохраняется,
// событие не эмитится.
func (s *Service) Update(ctx context.Context, id int64, patch dto.PersonelUpdate) (*dto.Personel, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil && *patch.Email != current.Email {
		exists, err := s.repo.ExistsByEmailExcept(ctx, *patch.Email, id)
		if err != nil {
			return nil, fmt.Errorf("repo.ExistsByEmailExcept: %w", err)
		}
		if exists {
			return nil, dto.ErrDuplicateEmail
		}
	}

	var changed []string

	if patch.Ad != nil && *patch.Ad != current.Ad {
		current.Ad = *patch.Ad
		changed = append(changed, "Ad")
	}
	if patch.Soyad != nil && *patch.Soyad != current.Soyad {
		current.Soyad = *patch.Soyad
		changed = append(changed, "Soyad")
	}
	if patch.Email != nil && *patch.Email != current.Email {
		current.Email = *patch.Email
		changed = append(changed, "Email")
	}
	if patch.Telefon != nil && *patch.Telefon != current.Telefon {
		current.Telefon = *patch.Telefon
		changed = append(changed, "Telefon")
	}
	if patch.Departman != nil && *patch.Departman != current.Departman {
		current.Departman = *patch.Departman
		changed = append(changed, "Departman")
	}
	if patch.Pozisyon != nil && *patch.Pozisyon != current.Pozisyon {
		current.Pozisyon = *patch.Pozisyon
		changed = append(changed, "Pozisyon")
	}
	if patch.IseBaslamaTarihi != nil && *patch.IseBaslamaTarihi != current.IseBaslamaTarihi {
		current.IseBaslamaTarihi = *patch.IseBaslamaTarihi
		changed = append(changed, "İşe Başlama Tarihi")
	}
	if patch.Maas != nil && !equalMaas(patch.Maas, current.Maas) {
		current.Maas = patch.Maas
		changed = append(changed, "Maaş")
	}
	if patch.Aktif != nil && *patch.Aktif != current.Aktif {
		current.Aktif = *patch.Aktif
		changed = append(changed, "Aktiflik Durumu")
	}

	// сохраняем в любом случае, даже если diff пуст
	updated, err := s.repo.Update(ctx, *current)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("personel_id", id).Int("changed_fields", len(changed)).Msg("personel updated")

	if len(changed) > 0 {
		s.publish(ctx, updated, dto.OperationUpdate, "Güncellenen alanlar: "+strings.Join(changed, ", "))
	}

	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("personel_id", id).Msg("personel soft-deleted")

	p.Aktif = false
	s.publish(ctx, p, dto.OperationDelete, "Personel silindi")

	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*dto.Personel, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]dto.Personel, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListPaged(ctx context.Context, page, size int, sortBy, sortDir string) (dto.Page[dto.Personel], error) {
	rows, total, err := s.repo.ListPaged(ctx, page, size, sortBy, sortDir)
	if err != nil {
		return dto.Page[dto.Personel]{}, err
	}

	return dto.NewPage(rows, total, page, size), nil
}

func (s *Service) Search(ctx context.Context, searchText string, page, size int) (dto.Page[dto.Personel], error) {
	rows, total, err := s.repo.Search(ctx, searchText, page, size)
	if err != nil {
		return dto.Page[dto.Personel]{}, err
	}

	return dto.NewPage(rows, total, page, size), nil
}

func (s *Service) Departments(ctx context.Context) ([]string, error) {
	return s.repo.Departments(ctx)
}

func (s *Service) Positions(ctx context.Context) ([]string, error) {
	return s.repo.Positions(ctx)
}

// publish — best-effort: отказ логируется и глотается, вызывающему
// не возвращается (принятая щель at-most-once для уведомлений).
func (s *Service) publish(ctx context.Context, p *dto.Personel, operationType, changedFields string) {
	event := dto.ChangeEvent{
		PersonelID:    p.ID,
		Ad:            p.Ad,
		Soyad:         p.Soyad,
		Email:         p.Email,
		OperationType: operationType,
		ChangedFields: changedFields,
		Timestamp:     time.Now(),
	}

	if err := s.publisher.PublishChange(ctx, event); err != nil {
		s.log.Error().
			Err(err).
			Int64("personel_id", p.ID).
			Str("operation", operationType).
			Msg("change event publish failed")
	}
}

func equalMaas(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
