package handlers

import (
	"errors"
	"net/http"

	"crm_records_api/internal/models"
	"crm_records_api/internal/repository/sysconfig"
)

// GetConfig handles GET /config. A missing configuration is not an error:
// clients get the empty structure to fill in.
func (h *Handlers) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Config.Get(r.Context())
	if errors.Is(err, sysconfig.ErrNotFound) {
		h.JSON(w, http.StatusOK, models.EmptyConfig())
		return
	}
	if err != nil {
		h.Fail(w, "CONFIG", err)
		return
	}

	h.JSON(w, http.StatusOK, cfg)
}

// CreateConfig handles POST /config: create the configuration, or replace
// it wholesale when one already exists.
func (h *Handlers) CreateConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := models.DecodeConfig(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.Fail(w, "CONFIG", err)
		return
	}

	stored, created, err := h.Config.Put(r.Context(), cfg)
	if err != nil {
		h.Fail(w, "CONFIG", err)
		return
	}

	msg := "configuration replaced"
	if created {
		msg = "configuration created"
	}
	h.JSON(w, http.StatusCreated, map[string]any{"message": msg, "config": stored})
}

// UpdateConfig handles PUT /config and requires an existing configuration.
func (h *Handlers) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := models.DecodeConfig(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.Fail(w, "CONFIG", err)
		return
	}

	stored, err := h.Config.Replace(r.Context(), cfg)
	if err != nil {
		h.Fail(w, "CONFIG", err)
		return
	}

	h.JSON(w, http.StatusOK, map[string]any{"config": stored})
}

// DeleteConfig handles DELETE /config.
func (h *Handlers) DeleteConfig(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Config.Delete(r.Context())
	if err != nil {
		h.Fail(w, "CONFIG", err)
		return
	}

	h.JSON(w, http.StatusOK, map[string]any{"deleted_config": deleted})
}
