package handle_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cafe-orders/internal/order/api/http/handle"
	"cafe-orders/internal/order/app/core"
	"cafe-orders/internal/order/app/services"
	"cafe-orders/internal/order/domain/dto"
	"cafe-orders/internal/order/domain/models"
	"cafe-orders/internal/xpkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMenuRepo struct {
	menus     map[int64]models.Menu
	createErr error
}

func (f *fakeMenuRepo) FindAll(_ context.Context) ([]models.Menu, error) {
	var out []models.Menu
	for _, m := range f.menus {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakeMenuRepo) FindByID(_ context.Context, id int64) (models.Menu, error) {
	m, ok := f.menus[id]
	if !ok {
		return models.Menu{}, fmt.Errorf("%w: %d", core.ErrMenuNotFound, id)
	}
	return m, nil
}

func (f *fakeMenuRepo) Create(_ context.Context, menu models.Menu) (models.Menu, error) {
	if f.createErr != nil {
		return models.Menu{}, f.createErr
	}
	menu.ID = int64(len(f.menus) + 1)
	f.menus[menu.ID] = menu
	return menu, nil
}

func (f *fakeMenuRepo) Update(_ context.Context, menu models.Menu) error {
	f.menus[menu.ID] = menu
	return nil
}

func (f *fakeMenuRepo) Delete(_ context.Context, id int64) error {
	delete(f.menus, id)
	return nil
}

type fakeCustomerRepo struct{}

func (fakeCustomerRepo) FindByEmail(_ context.Context, email string) (models.Customer, error) {
	return models.Customer{ID: 1, Email: email}, nil
}

func (fakeCustomerRepo) ResolveOrCreate(_ context.Context, email string) (models.Customer, error) {
	return models.Customer{ID: 1, Email: email}, nil
}

func newMenuMux(t *testing.T, repo *fakeMenuRepo) http.Handler {
	t.Helper()

	mylog, err := logger.New("ERROR")
	require.NoError(t, err)

	menuService := services.NewMenuService(context.Background(), repo, fakeCustomerRepo{}, mylog)
	menuHandler := handle.NewMenuHandler(menuService, mylog)

	mux := http.NewServeMux()
	mux.Handle("GET /menus", menuHandler.List())
	mux.Handle("GET /menus/{id}", menuHandler.Get())
	mux.Handle("POST /menus", menuHandler.Create())
	mux.Handle("PUT /menus/{id}", menuHandler.Modify())
	mux.Handle("DELETE /menus/{id}", menuHandler.Delete())
	return handle.RequestID(mux)
}

func TestMenuGetHandler(t *testing.T) {
	repo := &fakeMenuRepo{menus: map[int64]models.Menu{
		3: {ID: 3, Name: "latte", Price: 4500, Category: "coffee", OwnerEmail: "owner@cafe.com"},
	}}
	mux := newMenuMux(t, repo)

	t.Run("returns an existing menu", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menus/3", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp dto.MenuResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(3), resp.ID)
		assert.Equal(t, "latte", resp.Name)
		assert.Equal(t, 4500, resp.Price)
	})

	t.Run("404 on a missing menu", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menus/77", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("400 on a non-integer id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/menus/abc", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMenuCreateHandlerStatusCodes(t *testing.T) {
	t.Run("creates a valid menu", func(t *testing.T) {
		repo := &fakeMenuRepo{menus: map[int64]models.Menu{}}
		rec := postJSONMethod(t, newMenuMux(t, repo), http.MethodPost, "/menus", dto.CreateMenuRequest{
			Name: "latte", Price: 4500, Email: "owner@cafe.com",
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, repo.menus, 1)
	})

	t.Run("400 on a bad email", func(t *testing.T) {
		repo := &fakeMenuRepo{menus: map[int64]models.Menu{}}
		rec := postJSONMethod(t, newMenuMux(t, repo), http.MethodPost, "/menus", dto.CreateMenuRequest{
			Name: "latte", Price: 4500, Email: "not-an-email",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("400 on a non-positive price", func(t *testing.T) {
		repo := &fakeMenuRepo{menus: map[int64]models.Menu{}}
		rec := postJSONMethod(t, newMenuMux(t, repo), http.MethodPost, "/menus", dto.CreateMenuRequest{
			Name: "latte", Price: 0, Email: "owner@cafe.com",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("500 when the insert fails", func(t *testing.T) {
		repo := &fakeMenuRepo{menus: map[int64]models.Menu{}, createErr: errors.New("insert blew up")}
		rec := postJSONMethod(t, newMenuMux(t, repo), http.MethodPost, "/menus", dto.CreateMenuRequest{
			Name: "latte", Price: 4500, Email: "owner@cafe.com",
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestMenuModifyHandlerOwnership(t *testing.T) {
	repo := &fakeMenuRepo{menus: map[int64]models.Menu{
		3: {ID: 3, Name: "latte", Price: 4500, OwnerEmail: "owner@cafe.com"},
	}}
	mux := newMenuMux(t, repo)

	rec := postJSONMethod(t, mux, http.MethodPut, "/menus/3", dto.ModifyMenuRequest{
		Name: "iced latte", Price: 5000, Email: "intruder@cafe.com",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "latte", repo.menus[3].Name)

	rec = postJSONMethod(t, mux, http.MethodPut, "/menus/3", dto.ModifyMenuRequest{
		Name: "iced latte", Price: 5000, Email: "owner@cafe.com",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "iced latte", repo.menus[3].Name)
	assert.Equal(t, 5000, repo.menus[3].Price)
}

func postJSONMethod(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
