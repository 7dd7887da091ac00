package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// PriceOrder computes the total price of an order from the current book price.
func (api *APIHandler) PriceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	requestID := GetValueFromContext(ctx, ContextRequestID)

	var req OrderRequest
	if err := decodeBody(r, &req); err != nil {
		api.logger.Error("failed to price order", zap.String("request.id", requestID), zap.Error(err))
		api.sendError(ctx, w, http.StatusBadRequest, "failed to price the order", "invalid request body")
		return
	}

	if verrs := ValidateStruct(req); verrs != nil {
		api.logger.Error("failed to price order", zap.String("request.id", requestID), zap.Any("validation", verrs))
		api.sendError(ctx, w, http.StatusBadRequest, "failed to price the order", verrs)
		return
	}

	order := req.ToOrder()
	total, found, err := api.inventoryService.PriceOrder(ctx, order)
	switch {
	case errors.Is(err, ErrInvalidOrder):
		api.logger.Error("failed to price order", zap.String("book.id", order.BookID), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(ctx, w, http.StatusBadRequest, "failed to price the order", err.Error())
		return
	case errors.Is(err, ErrInsufficientStock):
		api.logger.Info("order exceeds stock", zap.String("book.id", order.BookID), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(ctx, w, http.StatusConflict, "failed to price the order", err.Error())
		return
	case err != nil:
		api.logger.Error("failed to price order", zap.String("book.id", order.BookID), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(ctx, w, http.StatusInternalServerError, "failed to price the order", "internal error")
		return
	case !found:
		api.logger.Error("book does not exist", zap.String("book.id", order.BookID), zap.String("request.id", requestID))
		api.sendError(ctx, w, http.StatusNotFound, "failed to price the order",
			fmt.Sprintf("book with bookId %s not found", order.BookID))
		return
	}

	api.logger.Info("success to price order", zap.String("book.id", order.BookID), zap.String("request.id", requestID), zap.Float64("order.total", total))
	api.sendResponse(ctx, w, http.StatusOK, "Order priced successfully.", nil, NewOrderPriceResponse(order, total))
}
