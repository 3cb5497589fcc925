package personel

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarikcelik1/microservice-personnel-management/internal/dto"
)

type fakeRepo struct {
	byID      map[int64]dto.Personel
	emails    map[string]int64
	nextID    int64
	updated   *dto.Personel
	deleted   []int64
	createErr error
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:   map[int64]dto.Personel{},
		emails: map[string]int64{},
		nextID: 1,
	}
}

func (f *fakeRepo) add(p dto.Personel) dto.Personel {
	p.ID = f.nextID
	f.nextID++
	f.byID[p.ID] = p
	f.emails[p.Email] = p.ID
	return p
}

func (f *fakeRepo) Create(_ context.Context, in dto.PersonelCreate) (*dto.Personel, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}

	p := f.add(dto.Personel{
		Ad:    in.Ad,
		Soyad: in.Soyad,
		Email: in.Email,
		Aktif: true,
	})
	return &p, nil
}

func (f *fakeRepo) Update(_ context.Context, p dto.Personel) (*dto.Personel, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}

	f.updated = &p
	f.byID[p.ID] = p
	return &p, nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return dto.ErrNotFound
	}

	f.deleted = append(f.deleted, id)
	p := f.byID[id]
	p.Aktif = false
	f.byID[id] = p
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*dto.Personel, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, dto.ErrNotFound
	}
	return &p, nil
}

func (f *fakeRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := f.emails[email]
	return ok, nil
}

func (f *fakeRepo) ExistsByEmailExcept(_ context.Context, email string, id int64) (bool, error) {
	owner, ok := f.emails[email]
	return ok && owner != id, nil
}

func (f *fakeRepo) List(_ context.Context) ([]dto.Personel, error) { return nil, nil }

func (f *fakeRepo) ListPaged(_ context.Context, _, _ int, _, _ string) ([]dto.Personel, int64, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Search(_ context.Context, _ string, _, _ int) ([]dto.Personel, int64, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Departments(_ context.Context) ([]string, error) { return nil, nil }
func (f *fakeRepo) Positions(_ context.Context) ([]string, error)   { return nil, nil }

type fakePublisher struct {
	events []dto.ChangeEvent
	err    error
}

func (f *fakePublisher) PublishChange(_ context.Context, event dto.ChangeEvent) error {
	f.events = append(f.events, event)
	return f.err
}

func newService(repo *fakeRepo, pub *fakePublisher) *Service {
	return NewService(repo, pub, zerolog.Nop())
}

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool      { return &v }

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and emits CREATE event", func(t *testing.T) {
		repo := newFakeRepo()
		pub := &fakePublisher{}
		svc := newService(repo, pub)

		created, err := svc.Create(ctx, dto.PersonelCreate{
			Ad:    "Ahmet",
			Soyad: "Yılmaz",
			Email: "ahmet@company.com",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.True(t, created.Aktif)

		require.Len(t, pub.events, 1)
		event := pub.events[0]
		assert.Equal(t, created.ID, event.PersonelID)
		assert.Equal(t, dto.OperationCreate, event.OperationType)
		assert.Equal(t, "Yeni personel eklendi", event.ChangedFields)
		assert.Equal(t, "ahmet@company.com", event.Email)
	})

	t.Run("duplicate email rejected before insert", func(t *testing.T) {
		repo := newFakeRepo()
		repo.add(dto.Personel{Ad: "Ahmet", Soyad: "Yılmaz", Email: "ahmet@company.com"})
		pub := &fakePublisher{}
		svc := newService(repo, pub)

		_, err := svc.Create(ctx, dto.PersonelCreate{
			Ad:    "Mehmet",
			Soyad: "Demir",
			Email: "ahmet@company.com",
		})
		require.ErrorIs(t, err, dto.ErrDuplicateEmail)
		assert.Empty(t, pub.events)
	})

	t.Run("publish failure does not fail the create", func(t *testing.T) {
		repo := newFakeRepo()
		pub := &fakePublisher{err: errors.New("broker down")}
		svc := newService(repo, pub)

		created, err := svc.Create(ctx, dto.PersonelCreate{
			Ad:    "Ayşe",
			Soyad: "Kaya",
			Email: "ayse@company.com",
		})
		require.NoError(t, err)
		assert.NotNil(t, created)
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	seed := func(repo *fakeRepo) dto.Personel {
		return repo.add(dto.Personel{
			Ad:        "Ahmet",
			Soyad:     "Yılmaz",
			Email:     "ahmet@company.com",
			Telefon:   "05551234567",
			Departman: "IT",
			Pozisyon:  "Developer",
			Maas:      f64Ptr(50000),
			Aktif:     true,
		})
	}

	t.Run("changed fields listed in fixed order", func(t *testing.T) {
		repo := newFakeRepo()
		p := seed(repo)
		pub := &fakePublisher{}
		svc := newService(repo, pub)

		_, err := svc.Update(ctx, p.ID, dto.PersonelUpdate{
			Maas:      f64Ptr(60000),
			Ad:        strPtr("Mehmet"),
			Departman: strPtr("HR"),
		})
		require.NoError(t, err)

		require.Len(t, pub.events, 1)
		event := pub.events[0]
		assert.Equal(t, dto.OperationUpdate, event.OperationType)
		assert.Equal(t, "Güncellenen alanlar: Ad, Departman, Maaş", event.ChangedFields)
	})

	t.Run("no-op patch saves but emits nothing", func(t *testing.T) {
		repo := newFakeRepo()
		p := seed(repo)
		pub := &fakePublisher{}
		svc := newService(repo, pub)

		updated, err := svc.Update(ctx, p.ID, dto.PersonelUpdate{
			Ad:    strPtr("Ahmet"),
			Email: strPtr("ahmet@company.com"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Ahmet", updated.Ad)

		require.NotNil(t, repo.updated)
		assert.Empty(t, pub.events)
	})

	t.Run("aktif is patchable", func(t *testing.T) {
		repo := newFakeRepo()
		p := seed(repo)
		pub := &fakePublisher{}
		svc := newService(repo, pub)

		updated, err := svc.Update(ctx, p.ID, dto.PersonelUpdate{Aktif: boolPtr(false)})
		require.NoError(t, err)
		assert.False(t, updated.Aktif)

		require.Len(t, pub.events, 1)
		assert.Equal(t, "Güncellenen alanlar: Aktiflik Durumu", pub.events[0].ChangedFields)
	})

	t.Run("email collision with another record rejected", func(t *testing.T) {
		repo := newFakeRepo()
		p := seed(repo)
		repo.add(dto.Personel{Ad: "Ayşe", Soyad: "Kaya", Email: "ayse@company.com"})
		pub := &fakePublisher{}
		svc := newService(repo, pub)

		_, err := svc.Update(ctx, p.ID, dto.PersonelUpdate{Email: strPtr("ayse@company.com")})
		require.ErrorIs(t, err, dto.ErrDuplicateEmail)
		assert.Nil(t, repo.updated)
		assert.Empty(t, pub.events)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := newFakeRepo()
		pub := &fakePublisher{}
		svc := newService(repo, pub)

		_, err := svc.Update(ctx, 777, dto.PersonelUpdate{Ad: strPtr("X")})
		require.ErrorIs(t, err, dto.ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("soft delete emits DELETE event", func(t *testing.T) {
		repo := newFakeRepo()
		p := repo.add(dto.Personel{Ad: "Ahmet", Soyad: "Yılmaz", Email: "ahmet@company.com", Aktif: true})
		pub := &fakePublisher{}
		svc := newService(repo, pub)

		require.NoError(t, svc.Delete(ctx, p.ID))
		assert.Equal(t, []int64{p.ID}, repo.deleted)
		assert.False(t, repo.byID[p.ID].Aktif)

		require.Len(t, pub.events, 1)
		event := pub.events[0]
		assert.Equal(t, dto.OperationDelete, event.OperationType)
		assert.Equal(t, "Personel silindi", event.ChangedFields)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := newFakeRepo()
		pub := &fakePublisher{}
		svc := newService(repo, pub)

		require.ErrorIs(t, svc.Delete(ctx, 42), dto.ErrNotFound)
		assert.Empty(t, pub.events)
	})
}

func TestListPaged(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := newService(repo, pub)

	page, err := svc.ListPaged(context.Background(), 0, 10, "id", "asc")
	require.NoError(t, err)
	assert.NotNil(t, page.Content)
	assert.Zero(t, page.TotalElements)
}
