package handle

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"cafe-orders/internal/order/app/core"
	"cafe-orders/internal/order/app/services"
	"cafe-orders/internal/order/domain/dto"
	"cafe-orders/internal/order/domain/models"
	"cafe-orders/internal/xpkg/logger"
)

type MenuHandler struct {
	menuService *services.MenuService
	mylog       logger.Logger
}

func NewMenuHandler(menuService *services.MenuService, mylog logger.Logger) *MenuHandler {
	return &MenuHandler{
		menuService: menuService,
		mylog:       mylog,
	}
}

func (mh *MenuHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		menus, err := mh.menuService.FindAll(r.Context())
		if err != nil {
			jsonError(w, http.StatusInternalServerError, errors.New("failed to list menus"))
			return
		}

		resp := make([]dto.MenuResponse, 0, len(menus))
		for _, m := range menus {
			resp = append(resp, toMenuResponse(m))
		}
		jsonResponse(w, http.StatusOK, resp)
	}
}

func (mh *MenuHandler) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := menuID(r)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		menu, err := mh.menuService.FindByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, core.ErrMenuNotFound) {
				jsonError(w, http.StatusNotFound, err)
				return
			}
			jsonError(w, http.StatusInternalServerError, errors.New("failed to get menu"))
			return
		}

		jsonResponse(w, http.StatusOK, toMenuResponse(menu))
	}
}

func (mh *MenuHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := mh.mylog.With("request_id", RequestIDFrom(r.Context()))

		var req dto.CreateMenuRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			mylog.Action("parse_failed").Error("Failed to parse menu", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		menu, err := mh.menuService.Create(r.Context(), req)
		if err != nil {
			// Only the request's own faults are 400; a failed insert is ours.
			switch {
			case errors.Is(err, core.ErrInvalidEmail),
				errors.Is(err, core.ErrFieldIsEmpty),
				errors.Is(err, core.ErrBadPrice):
				jsonError(w, http.StatusBadRequest, err)
			case errors.Is(err, core.ErrDBConn):
				jsonError(w, http.StatusInternalServerError, err)
			default:
				mylog.Action("menu_create_failed").Error("Failed to create menu", err)
				jsonError(w, http.StatusInternalServerError, errors.New("failed to create menu"))
			}
			return
		}

		jsonResponse(w, http.StatusOK, toMenuResponse(menu))
	}
}

func (mh *MenuHandler) Modify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := menuID(r)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		var req dto.ModifyMenuRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		if err := mh.menuService.Modify(r.Context(), id, req); err != nil {
			mh.writeMenuWriteError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, map[string]string{"message": "menu updated successfully"})
	}
}

func (mh *MenuHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := menuID(r)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		var req dto.DeleteMenuRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		if err := mh.menuService.Delete(r.Context(), id, req.Email); err != nil {
			mh.writeMenuWriteError(w, err)
			return
		}

		jsonResponse(w, http.StatusOK, map[string]string{"message": "menu deleted successfully"})
	}
}

func (mh *MenuHandler) writeMenuWriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrMenuNotFound):
		jsonError(w, http.StatusNotFound, err)
	case errors.Is(err, core.ErrNotOwner):
		jsonError(w, http.StatusForbidden, err)
	case errors.Is(err, core.ErrDBConn):
		jsonError(w, http.StatusInternalServerError, err)
	default:
		jsonError(w, http.StatusInternalServerError, errors.New("menu operation failed"))
	}
}

func menuID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errors.New("menu id must be an integer")
	}
	return id, nil
}

func toMenuResponse(m models.Menu) dto.MenuResponse {
	return dto.MenuResponse{
		ID:       m.ID,
		Name:     m.Name,
		Price:    m.Price,
		ImgURL:   m.ImgURL,
		Category: m.Category,
	}
}
