package handle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cafe-orders/internal/order/app/core"
	"cafe-orders/internal/order/app/services"
	"cafe-orders/internal/order/domain/dto"
	"cafe-orders/internal/xpkg/logger"
)

type OrderHandler struct {
	orderService *services.OrderService
	mylog        logger.Logger
}

func NewOrderHandler(orderService *services.OrderService, mylog logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		mylog:        mylog,
	}
}

func (oh *OrderHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := oh.mylog.With("request_id", RequestIDFrom(r.Context()))

		var order dto.CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
			mylog.Action("parse_failed").Error("Failed to parse order", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		if err := oh.orderService.ValidateOrder(order); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}
		mylog.Action("received").Debug("Received order info", "email", order.Email, "number_of_items", len(order.Items))

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		newOrder, err := oh.orderService.Create(ctx, order)
		if err != nil {
			if errors.Is(err, core.ErrMenuNotFound) {
				jsonError(w, http.StatusBadRequest, err)
				return
			}
			if errors.Is(err, core.ErrCustomerConflict) {
				jsonError(w, http.StatusConflict, err)
				return
			}
			if errors.Is(err, core.ErrDBConn) {
				jsonError(w, http.StatusInternalServerError, err)
				return
			}
			jsonError(w, http.StatusInternalServerError, errors.New("failed to add order"))
			return
		}

		jsonResponse(w, http.StatusOK, dto.CreateOrderResponse{
			Message: "order created successfully",
		})
		mylog.Action("completed").Info("New order is added to db successfully!", "order_id", newOrder.ID)
	}
}

func (oh *OrderHandler) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mylog := oh.mylog.With("request_id", RequestIDFrom(r.Context()))

		var req dto.HistoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			mylog.Action("parse_failed").Error("Failed to parse history request", err)
			jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
			return
		}

		if err := services.ValidateEmail(req.Email); err != nil {
			jsonError(w, http.StatusBadRequest, err)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), core.WaitTime*time.Second)
		defer cancel()

		history, err := oh.orderService.GetHistory(ctx, req.Email)
		if err != nil {
			if errors.Is(err, core.ErrDBConn) {
				jsonError(w, http.StatusInternalServerError, err)
				return
			}
			jsonError(w, http.StatusInternalServerError, errors.New("failed to get order history"))
			return
		}

		// Empty history maps to 404 here at the boundary; the service itself
		// treats it as a normal result.
		if len(history.Orders) == 0 {
			jsonError(w, http.StatusNotFound, fmt.Errorf("no orders found for %s", req.Email))
			return
		}

		jsonResponse(w, http.StatusOK, history)
	}
}
