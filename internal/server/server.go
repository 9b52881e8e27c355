package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"crm_records_api/internal/handlers"
	"crm_records_api/internal/transport/cors"
)

type Server struct {
	httpServer *http.Server
}

// NewRouter wires every endpoint onto a ServeMux and wraps it with the
// CORS policy. Kept separate from NewServer so tests can drive the full
// routing table through httptest.
func NewRouter(h *handlers.Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("POST /crm/records", h.CreateRecord)
	mux.HandleFunc("POST /crm/records/batch", h.CreateRecordBatch)
	mux.HandleFunc("POST /crm/records/export", h.ExportRecords)
	mux.HandleFunc("GET /crm/records", h.ListRecords)
	mux.HandleFunc("GET /crm/records/{id}", h.GetRecord)
	mux.HandleFunc("PUT /crm/records/{id}", h.UpdateRecord)
	mux.HandleFunc("DELETE /crm/records/{id}", h.DeleteRecord)

	mux.HandleFunc("GET /config", h.GetConfig)
	mux.HandleFunc("POST /config", h.CreateConfig)
	mux.HandleFunc("PUT /config", h.UpdateConfig)
	mux.HandleFunc("DELETE /config", h.DeleteConfig)

	return cors.Middleware(mux)
}

func NewServer(port string, h *handlers.Handlers) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      NewRouter(h),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shCtx)
	case err := <-errCh:
		return err
	}
}
