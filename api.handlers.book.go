package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Index provides same details like `Status` handler by redirecting the request.
func (api *APIHandler) Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.Redirect(w, r, "/status", http.StatusSeeOther)
}

// Status provides basics details about the application to the public users.
func (api *APIHandler) Status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if err := json.NewEncoder(w).Encode(
		map[string]interface{}{
			"requestid": requestID,
			"status":    "up & running since " + uptime(api.clock, api.stats.started),
			"message":   "Hello. Bookstore inventory api is available. Enjoy :)",
		},
	); err != nil {
		api.logger.Error("failed to send status response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// decodeBody reads a json request body into v.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	return json.NewDecoder(r.Body).Decode(v)
}

func (api *APIHandler) CreateBook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	requestID := GetValueFromContext(ctx, ContextRequestID)

	var req BookRequest
	if err := decodeBody(r, &req); err != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		api.sendError(ctx, w, http.StatusBadRequest, "failed to create the book", "invalid request body")
		return
	}

	if verrs := ValidateStruct(req); verrs != nil {
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Any("validation", verrs))
		api.sendError(ctx, w, http.StatusBadRequest, "failed to create the book", verrs)
		return
	}

	book, err := api.inventoryService.Add(ctx, req.ToBook())
	switch {
	case errors.Is(err, ErrInvalidBook):
		api.logger.Error("failed to create book", zap.String("request.id", requestID), zap.Error(err))
		api.sendError(ctx, w, http.StatusBadRequest, "failed to create the book", err.Error())
		return
	case errors.Is(err, ErrDuplicateKey):
		api.logger.Error("book already exists", zap.String("book.id", req.BookID), zap.String("request.id", requestID))
		api.sendError(ctx, w, http.StatusConflict, "failed to create the book",
			fmt.Sprintf("book with bookId %s already exists", req.BookID))
		return
	case err != nil:
		api.logger.Error("failed to create book", zap.String("book.id", req.BookID), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(ctx, w, http.StatusInternalServerError, "failed to create the book", "internal error")
		return
	}

	api.logger.Info("success to create book", zap.String("book.id", book.BookID), zap.String("request.id", requestID))
	api.sendResponse(ctx, w, http.StatusCreated, "Book created successfully.", nil, NewBookResponse(book))
}

func (api *APIHandler) GetAllBooks(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	requestID := GetValueFromContext(ctx, ContextRequestID)

	page, err := ParsePage(r)
	if err != nil {
		api.logger.Error("invalid pagination parameters", zap.String("request.id", requestID), zap.Error(err))
		api.sendError(ctx, w, http.StatusBadRequest, "failed to get all books", err.Error())
		return
	}

	books, err := api.inventoryService.List(ctx, page)
	if err != nil {
		api.logger.Error("failed to get all books", zap.String("request.id", requestID), zap.Error(err))
		api.sendError(ctx, w, http.StatusInternalServerError, "failed to get all books", "internal error")
		return
	}

	api.logger.Info("success to get all books", zap.String("request.id", requestID), zap.Int("books.count", len(books)))
	total := len(books)
	api.sendResponse(ctx, w, http.StatusOK, "All books fetched successfully.", &total, NewBooksResponse(books))
}

func (api *APIHandler) GetOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	requestID := GetValueFromContext(ctx, ContextRequestID)
	id := ps.ByName("id")

	book, found, err := api.inventoryService.Get(ctx, id)
	if err != nil {
		api.logger.Error("failed to get book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(ctx, w, http.StatusInternalServerError, "failed to get the book", "internal error")
		return
	}
	if !found {
		api.logger.Error("book does not exist", zap.String("book.id", id), zap.String("request.id", requestID))
		api.sendError(ctx, w, http.StatusNotFound, "book does not exist", "Book not found")
		return
	}

	api.logger.Info("success to get book", zap.String("book.id", id), zap.String("request.id", requestID))
	api.sendResponse(ctx, w, http.StatusOK, "Book fetched successfully.", nil, NewBookResponse(book))
}

// UpdateBook applies a partial update. Only the fields present in the body are changed.
func (api *APIHandler) UpdateBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	requestID := GetValueFromContext(ctx, ContextRequestID)
	id := ps.ByName("id")

	var req BookUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		api.logger.Error("failed to update book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(ctx, w, http.StatusBadRequest, "failed to update the book", "invalid request body")
		return
	}

	if verrs := ValidateStruct(req); verrs != nil {
		api.logger.Error("failed to update book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Any("validation", verrs))
		api.sendError(ctx, w, http.StatusBadRequest, "failed to update the book", verrs)
		return
	}

	book, found, err := api.inventoryService.Update(ctx, id, req.ToBookUpdate())
	switch {
	case errors.Is(err, ErrInvalidBook):
		api.logger.Error("failed to update book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(ctx, w, http.StatusBadRequest, "failed to update the book", err.Error())
		return
	case err != nil:
		api.logger.Error("failed to update book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(ctx, w, http.StatusInternalServerError, "failed to update the book", "internal error")
		return
	case !found:
		api.logger.Error("book does not exist", zap.String("book.id", id), zap.String("request.id", requestID))
		api.sendError(ctx, w, http.StatusNotFound, "book does not exist", "Book not found")
		return
	}

	api.logger.Info("success to update book", zap.String("book.id", id), zap.String("request.id", requestID))
	api.sendResponse(ctx, w, http.StatusOK, "Book updated successfully.", nil, NewBookResponse(book))
}

func (api *APIHandler) DeleteOneBook(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	requestID := GetValueFromContext(ctx, ContextRequestID)
	id := ps.ByName("id")

	found, err := api.inventoryService.Remove(ctx, id)
	if err != nil {
		api.logger.Error("failed to delete book", zap.String("book.id", id), zap.String("request.id", requestID), zap.Error(err))
		api.sendError(ctx, w, http.StatusInternalServerError, "failed to delete the book", "internal error")
		return
	}
	if !found {
		api.logger.Error("book does not exist", zap.String("book.id", id), zap.String("request.id", requestID))
		api.sendError(ctx, w, http.StatusNotFound, "book does not exist", "Book not found")
		return
	}

	api.logger.Info("success to delete book", zap.String("book.id", id), zap.String("request.id", requestID))
	api.sendResponse(ctx, w, http.StatusOK, "Book deleted successfully.", nil, map[string]string{"bookId": id})
}

// NotFound is the handler used by the router for unknown routes.
func (api *APIHandler) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := GetValueFromContext(r.Context(), ContextRequestID)
		api.logger.Info("route not found", zap.String("request.id", requestID), zap.String("request.path", r.URL.Path))
		api.sendError(r.Context(), w, http.StatusNotFound, "route does not exist", "Not Found")
	})
}
