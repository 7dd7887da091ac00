package main

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var EmptyData = struct{}{}

// Statistics holds app stats for ops.
type Statistics struct {
	version   string
	container bool
	runtime   string
	platform  string
	called    uint64
	started   time.Time
	status    map[int]uint64
	mu        *sync.RWMutex
}

// Maintenance holds app maintenance mode infos.
type Maintenance struct {
	enabled atomic.Bool
	mu      sync.RWMutex
	message string
	started time.Time
}

// APIHandler defines the API handler.
type APIHandler struct {
	logger           *zap.Logger
	config           *Config
	stats            *Statistics
	mode             *Maintenance
	clock            Clocker
	idsHandler       UIDHandler
	inventoryService InventoryServiceProvider
}

// NewAPIHandler provides a new instance of APIHandler.
func NewAPIHandler(logger *zap.Logger, config *Config, stats *Statistics, clock Clocker, idsHandler UIDHandler, is InventoryServiceProvider) *APIHandler {
	m := &Maintenance{}
	m.enabled.Store(false)
	stats.status = make(map[int]uint64)
	stats.mu = &sync.RWMutex{}
	return &APIHandler{
		logger:           logger,
		config:           config,
		stats:            stats,
		mode:             m,
		clock:            clock,
		idsHandler:       idsHandler,
		inventoryService: is,
	}
}

// sendError writes an error envelope and logs the failure to do so.
func (api *APIHandler) sendError(ctx context.Context, w http.ResponseWriter, status int, message string, detail interface{}) {
	requestID := GetValueFromContext(ctx, ContextRequestID)
	errResp := NewAPIError(requestID, status, message, detail)
	if err := WriteErrorResponse(ctx, w, errResp); err != nil {
		api.logger.Error("failed to send error response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// sendResponse writes a success envelope and logs the failure to do so.
func (api *APIHandler) sendResponse(ctx context.Context, w http.ResponseWriter, status int, message string, total *int, data interface{}) {
	requestID := GetValueFromContext(ctx, ContextRequestID)
	resp := GenericResponse(requestID, status, message, total, data)
	if err := WriteResponse(ctx, w, resp); err != nil {
		api.logger.Error("failed to send response", zap.String("request.id", requestID), zap.Error(err))
	}
}
