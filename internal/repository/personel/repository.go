package personel

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

const personelColumns = `
id,
ad,
soyad,
email,
telefon,
departman,
pozisyon,
to_char(ise_baslama_tarihi, 'YYYY-MM-DD'),
maas,
aktif,
olusturma_tarihi,
guncelleme_tarihi`

// сортируемые колонки для /paged: json-имя поля → колонка
var sortColumns = map[string]string{
	"id":               "id",
	"ad":               "ad",
	"soyad":            "soyad",
	"email":            "email",
	"telefon":          "telefon",
	"departman":        "departman",
	"pozisyon":         "pozisyon",
	"iseBaslamaTarihi": "ise_baslama_tarihi",
	"maas":             "maas",
	"aktif":            "aktif",
	"olusturmaTarihi":  "olusturma_tarihi",
	"guncellemeTarihi": "guncelleme_tarihi",
}

func (r *Repository) Create(ctx context.Context, in dto.PersonelCreate) (*dto.Personel, error) {
	query := `
insert into personel
  (ad, soyad, email, telefon, departman, pozisyon, ise_baslama_tarihi, maas, aktif, olusturma_tarihi, guncelleme_tarihi)
values
  (@ad, @soyad, @email, @telefon, @departman, @pozisyon, @ise_baslama_tarihi::date, @maas, true, now(), now())
returning ` + personelColumns + `;
`
	args := pgx.NamedArgs{
		"ad":                 in.Ad,
		"soyad":              in.Soyad,
		"email":              in.Email,
		"telefon":            in.Telefon,
		"departman":          in.Departman,
		"pozisyon":           in.Pozisyon,
		"ise_baslama_tarihi": in.IseBaslamaTarihi,
		"maas":               in.Maas,
	}

	row := r.pool.QueryRow(ctx, query, args)

	out, err := scanPersonel(row)
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" {
			return nil, dto.ErrDuplicateEmail
		}

		return nil, fmt.Errorf("row.Scan: %w", err)
	}

	return out, nil
}

// Update переписывает все изменяемые поля строки; diff считает сервис.
func (r *Repository) Update(ctx context.Context, p dto.Personel) (*dto.Personel, error) {
	query := `
update personel set
  ad                 = @ad,
  soyad              = @soyad,
  email              = @email,
  telefon            = @telefon,
  departman          = @departman,
  pozisyon           = @pozisyon,
  ise_baslama_tarihi = @ise_baslama_tarihi::date,
  maas               = @maas,
  aktif              = @aktif,
  guncelleme_tarihi  = now()
where id = @id
returning ` + personelColumns + `;
`
	args := pgx.NamedArgs{
		"id":                 p.ID,
		"ad":                 p.Ad,
		"soyad":              p.Soyad,
		"email":              p.Email,
		"telefon":            p.Telefon,
		"departman":          p.Departman,
		"pozisyon":           p.Pozisyon,
		"ise_baslama_tarihi": p.IseBaslamaTarihi,
		"maas":               p.Maas,
		"aktif":              p.Aktif,
	}

	out, err := scanPersonel(r.pool.QueryRow(ctx, query, args))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dto.ErrNotFound
		}

		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" {
			return nil, dto.ErrDuplicateEmail
		}

		return nil, fmt.Errorf("row.Scan: %w", err)
	}

	return out, nil
}

// SoftDelete помечает строку неактивной, физически строка остаётся.
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	query := `update personel set aktif = false, guncelleme_tarihi = now() where id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dto.ErrNotFound
	}

	return nil
}

// GetByID возвращает строку и для aktif=false.
func (r *Repository) GetByID(ctx context.Context, id int64) (*dto.Personel, error) {
	query := `select ` + personelColumns + ` from personel where id = $1;`

	out, err := scanPersonel(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dto.ErrNotFound
		}

		return nil, fmt.Errorf("row.Scan: %w", err)
	}

	return out, nil
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `select 1 from personel where email = $1 limit 1`, email)
}

func (r *Repository) ExistsByEmailExcept(ctx context.Context, email string, id int64) (bool, error) {
	return r.exists(ctx, `select 1 from personel where email = $1 and id <> $2 limit 1`, email, id)
}

func (r *Repository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var x int

	err := r.pool.QueryRow(ctx, query, args...).Scan(&x)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("row.Scan: %w", err)
	}

	return true, nil
}

func (r *Repository) List(ctx context.Context) ([]dto.Personel, error) {
	query := `select ` + personelColumns + ` from personel where aktif = true order by id;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	return collectPersonel(rows)
}

func (r *Repository) ListPaged(ctx context.Context, page, size int, sortBy, sortDir string) ([]dto.Personel, int64, error) {
	column, ok := sortColumns[sortBy]
	if !ok {
		column = "id"
	}
	dir := "asc"
	if strings.EqualFold(sortDir, "desc") {
		dir = "desc"
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `select count(*) from personel where aktif = true`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("row.Scan: %w", err)
	}

	query := fmt.Sprintf(`select %s from personel where aktif = true order by %s %s limit $1 offset $2;`,
		personelColumns, column, dir)

	rows, err := r.pool.Query(ctx, query, size, page*size)
	if err != nil {
		return nil, 0, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	out, err := collectPersonel(rows)
	if err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

// Search — регистронезависимый поиск подстроки по имени/почте/департаменту/позиции,
// только активные строки.
func (r *Repository) Search(ctx context.Context, searchText string, page, size int) ([]dto.Personel, int64, error) {
	where := `
where aktif = true
  and (ad ilike @pattern
    or soyad ilike @pattern
    or email ilike @pattern
    or departman ilike @pattern
    or pozisyon ilike @pattern)`

	pattern := pgx.NamedArgs{"pattern": "%" + searchText + "%"}

	var total int64
	if err := r.pool.QueryRow(ctx, `select count(*) from personel `+where, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("row.Scan: %w", err)
	}

	query := `select ` + personelColumns + ` from personel ` + where + ` order by id limit @limit offset @offset;`

	args := pgx.NamedArgs{
		"pattern": "%" + searchText + "%",
		"limit":   size,
		"offset":  page * size,
	}

	rows, err := r.pool.Query(ctx, query, args)
	if err != nil {
		return nil, 0, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	out, err := collectPersonel(rows)
	if err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

func (r *Repository) Departments(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `select distinct departman from personel where aktif = true order by departman;`)
}

func (r *Repository) Positions(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `select distinct pozisyon from personel where aktif = true order by pozisyon;`)
}

func (r *Repository) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return out, nil
}

func scanPersonel(row pgx.Row) (*dto.Personel, error) {
	var out dto.Personel

	err := row.Scan(
		&out.ID,
		&out.Ad,
		&out.Soyad,
		&out.Email,
		&out.Telefon,
		&out.Departman,
		&out.Pozisyon,
		&out.IseBaslamaTarihi,
		&out.Maas,
		&out.Aktif,
		&out.OlusturmaTarihi,
		&out.GuncellemeTarihi,
	)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func collectPersonel(rows pgx.Rows) ([]dto.Personel, error) {
	var out []dto.Personel
	for rows.Next() {
		p, err := scanPersonel(rows)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return out, nil
}
