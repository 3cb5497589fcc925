package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/tarikcelik1/microservice-personnel-management/internal/dto"
)

// @Summary Tüm aktif personelleri listele
// @Tags    Personel
// @Produce json
// @Success 200 {array} dto.Personel
// @Router  /api/personel [get]
func (s *PersonelAPI) listPersonel(ctx *fasthttp.RequestCtx) {
	rows, err := s.personel.List(ctx)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("personel.List: %w", err))
		return
	}

	if rows == nil {
		rows = []dto.Personel{}
	}

	writeJSON(ctx, fasthttp.StatusOK, rows)
}

// @Summary Sayfalama ve sıralama ile personelleri listele
// @Tags    Personel
// @Produce json
// @Param   page    query int    false "Sayfa numarası"  default(0)
// @Param   size    query int    false "Sayfa boyutu"    default(10)
// @Param   sortBy  query string false "Sıralama alanı"  default(id)
// @Param   sortDir query string false "Sıralama yönü"   default(asc)
// @Success 200 {object} dto.Page[dto.Personel]
// @Router  /api/personel/paged [get]
func (s *PersonelAPI) listPersonelPaged(ctx *fasthttp.RequestCtx) {
	page := queryInt(ctx, "page", 0)
	size := queryInt(ctx, "size", 10)
	sortBy := queryStr(ctx, "sortBy", "id")
	sortDir := queryStr(ctx, "sortDir", "asc")

	result, err := s.personel.ListPaged(ctx, page, size, sortBy, sortDir)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("personel.ListPaged: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, result)
}

// @Summary ID ile personel getir
// @Tags    Personel
// @Produce json
// @Param   id path int true "Personel ID"
// @Success 200 {object} dto.Personel
// @Failure 404 {object} errorResponse "personel bulunamadı"
// @Router  /api/personel/{id} [get]
func (s *PersonelAPI) getPersonel(ctx *fasthttp.RequestCtx) {
	id, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, ErrPersonelIDRequired)
		return
	}

	row, err := s.personel.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrPersonelNotFound)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("personel.GetByID: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, row)
}

// @Summary Yeni personel oluştur
// @Tags    Personel
// @Accept  json
// @Produce json
// @Param   request body dto.PersonelCreate true "Personel"
// @Success 201 {object} dto.Personel
// @Failure 400 {object} errorResponse "doğrulama hatası"
// @Failure 409 {object} errorResponse "email zaten kullanımda"
// @Router  /api/personel [post]
func (s *PersonelAPI) createPersonel(ctx *fasthttp.RequestCtx) {
	var req dto.PersonelCreate

	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Errorf("json.Unmarshal: %w", err))
		return
	}

	if msg := validatePersonelCreate(req); msg != "" {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New(msg))
		return
	}

	created, err := s.personel.Create(ctx, req)
	if err != nil {
		if errors.Is(err, dto.ErrDuplicateEmail) {
			writeError(ctx, fasthttp.StatusConflict, ErrDuplicateEmail)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("personel.Create: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusCreated, created)
}

// @Summary Personel güncelle
// @Tags    Personel
// @Accept  json
// @Produce json
// @Param   id      path int                 true "Personel ID"
// @Param   request body dto.PersonelUpdate true "Değişen alanlar"
// @Success 200 {object} dto.Personel
// @Failure 400 {object} errorResponse "doğrulama hatası"
// @Failure 404 {object} errorResponse "personel bulunamadı"
// @Failure 409 {object} errorResponse "email zaten kullanımda"
// @Router  /api/personel/{id} [put]
func (s *PersonelAPI) updatePersonel(ctx *fasthttp.RequestCtx) {
	id, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, ErrPersonelIDRequired)
		return
	}

	var req dto.PersonelUpdate
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Errorf("json.Unmarshal: %w", err))
		return
	}

	if msg := validatePersonelUpdate(req); msg != "" {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New(msg))
		return
	}

	updated, err := s.personel.Update(ctx, id, req)
	if err != nil {
		switch {
		case errors.Is(err, dto.ErrNotFound):
			writeError(ctx, fasthttp.StatusNotFound, ErrPersonelNotFound)
		case errors.Is(err, dto.ErrDuplicateEmail):
			writeError(ctx, fasthttp.StatusConflict, ErrDuplicateEmail)
		default:
			writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("personel.Update: %w", err))
		}
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, updated)
}

// @Summary Personel sil (soft delete)
// @Tags    Personel
// @Param   id path int true "Personel ID"
// @Success 204 "içerik yok"
// @Failure 404 {object} errorResponse "personel bulunamadı"
// @Router  /api/personel/{id} [delete]
func (s *PersonelAPI) deletePersonel(ctx *fasthttp.RequestCtx) {
	id, err := pathID(ctx, "id")
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, ErrPersonelIDRequired)
		return
	}

	if err := s.personel.Delete(ctx, id); err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrPersonelNotFound)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("personel.Delete: %w", err))
		return
	}

	ctx.SetStatusCode(fasthttp.StatusNoContent)
}

// @Summary Personel ara
// @Tags    Personel
// @Produce json
// @Param   searchText query string true  "Arama metni"
// @Param   page       query int    false "Sayfa numarası" default(0)
// @Param   size       query int    false "Sayfa boyutu"   default(10)
// @Success 200 {object} dto.Page[dto.Personel]
// @Router  /api/personel/search [get]
func (s *PersonelAPI) searchPersonel(ctx *fasthttp.RequestCtx) {
	searchText := queryStr(ctx, "searchText", "")
	page := queryInt(ctx, "page", 0)
	size := queryInt(ctx, "size", 10)

	result, err := s.personel.Search(ctx, searchText, page, size)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("personel.Search: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, result)
}

// @Summary Departman listesi
// @Tags    Personel
// @Produce json
// @Success 200 {array} string
// @Router  /api/personel/departmanlar [get]
func (s *PersonelAPI) listDepartments(ctx *fasthttp.RequestCtx) {
	s.listDistinct(ctx, s.personel.Departments, "personel.Departments")
}

// @Summary Pozisyon listesi
// @Tags    Personel
// @Produce json
// @Success 200 {array} string
// @Router  /api/personel/pozisyonlar [get]
func (s *PersonelAPI) listPositions(ctx *fasthttp.RequestCtx) {
	s.listDistinct(ctx, s.personel.Positions, "personel.Positions")
}

func (s *PersonelAPI) listDistinct(ctx *fasthttp.RequestCtx, fetch func(c context.Context) ([]string, error), op string) {
	values, err := fetch(ctx)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("%s: %w", op, err))
		return
	}

	if values == nil {
		values = []string{}
	}

	writeJSON(ctx, fasthttp.StatusOK, values)
}

func pathID(ctx *fasthttp.RequestCtx, name string) (int64, error) {
	raw, _ := ctx.UserValue(name).(string)

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}

	return id, nil
}

func queryInt(ctx *fasthttp.RequestCtx, key string, def int) int {
	raw := string(ctx.QueryArgs().Peek(key))
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}

	return v
}

func queryStr(ctx *fasthttp.RequestCtx, key, def string) string {
	raw := string(ctx.QueryArgs().Peek(key))
	if raw == "" {
		return def
	}

	return raw
}
