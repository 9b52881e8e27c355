package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"crm_records_api/internal/config"
	mg "crm_records_api/internal/config/connections/mongo"
	"crm_records_api/internal/config/connections/s3"
	"crm_records_api/internal/models"
	"crm_records_api/internal/repository/records"
	"crm_records_api/internal/repository/sysconfig"
)

// RecordStore is what the handlers need from the records repository.
type RecordStore interface {
	Insert(ctx context.Context, rec models.CRMRecord) (string, error)
	InsertBatch(ctx context.Context, recs []models.CRMRecord) ([]string, error)
	List(ctx context.Context, skip, limit int64) ([]models.StoredRecord, int64, error)
	All(ctx context.Context) ([]models.StoredRecord, error)
	FindByID(ctx context.Context, id string) (models.StoredRecord, error)
	Replace(ctx context.Context, id string, rec models.CRMRecord) (models.StoredRecord, error)
	Delete(ctx context.Context, id string) (models.StoredRecord, error)
}

// ConfigStore is what the handlers need from the configuration repository.
type ConfigStore interface {
	Get(ctx context.Context) (models.StoredConfig, error)
	Put(ctx context.Context, cfg models.SystemConfig) (models.StoredConfig, bool, error)
	Replace(ctx context.Context, cfg models.SystemConfig) (models.StoredConfig, error)
	Delete(ctx context.Context) (models.StoredConfig, error)
}

type Handlers struct {
	Records RecordStore
	Config  ConfigStore

	Mongo *mg.Mongo
	S3    *s3.S3

	Logger *log.Logger
}

func New(cfg *config.Config) *Handlers {
	return &Handlers{
		Records: records.New(cfg.Mongo, cfg.RecordsCollection),
		Config:  sysconfig.New(cfg.Mongo, cfg.ConfigCollection),
		Mongo:   cfg.Mongo,
		S3:      cfg.S3,
		Logger:  log.Default(),
	}
}

func (h *Handlers) JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Fail maps an error from the stores to the response contract:
// validation failures are 422 with the offending fields, unknown
// identifiers are 404, anything else is a storage-side 500.
func (h *Handlers) Fail(w http.ResponseWriter, tag string, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		h.JSON(w, http.StatusUnprocessableEntity, map[string]any{"error": ve.Error(), "fields": ve.Fields})
	case errors.Is(err, records.ErrInvalidID):
		h.JSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "fields": []string{"id"}})
	case errors.Is(err, records.ErrEmptyBatch):
		h.JSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error(), "fields": []string{"records"}})
	case errors.Is(err, records.ErrNotFound), errors.Is(err, sysconfig.ErrNotFound):
		h.JSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
	default:
		h.Logger.Printf("[%s][ERR] %v", tag, err)
		h.JSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
}
