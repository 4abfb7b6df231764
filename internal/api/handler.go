package api

import (
	"time"

	"github.com/patrickmn/go-cache"

	"apnagate-backend/internal/auth"
	"apnagate-backend/internal/notification"
	"apnagate-backend/internal/store"
)

// Dispatcher queues visitor-arrival notifications for background fan-out.
type Dispatcher interface {
	Dispatch(job notification.VisitorArrival)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store        store.Store
	tokens       *auth.Tokens
	dispatcher   Dispatcher
	uploadDir    string
	vehicleCache *cache.Cache
}

// NewHandler creates a new API handler. vehicleCacheTTL bounds how stale a
// gate-side vehicle lookup may be.
func NewHandler(s store.Store, tokens *auth.Tokens, dispatcher Dispatcher, uploadDir string, vehicleCacheTTL time.Duration) *Handler {
	return &Handler{
		store:        s,
		tokens:       tokens,
		dispatcher:   dispatcher,
		uploadDir:    uploadDir,
		vehicleCache: cache.New(vehicleCacheTTL, 2*vehicleCacheTTL),
	}
}
