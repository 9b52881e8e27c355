package handlers

import (
	"net/http"
	"strconv"

	"crm_records_api/internal/models"
)

const maxBodyBytes = 1 << 20

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// CreateRecord handles POST /crm/records.
func (h *Handlers) CreateRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := models.DecodeRecord(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.Fail(w, "RECORDS", err)
		return
	}

	id, err := h.Records.Insert(r.Context(), rec)
	if err != nil {
		h.Fail(w, "RECORDS", err)
		return
	}

	h.JSON(w, http.StatusCreated, map[string]any{"id": id})
}

// CreateRecordBatch handles POST /crm/records/batch. The whole batch is
// rejected when any element is invalid; nothing is written in that case.
func (h *Handlers) CreateRecordBatch(w http.ResponseWriter, r *http.Request) {
	recs, err := models.DecodeRecordBatch(http.MaxBytesReader(w, r.Body, 16*maxBodyBytes))
	if err != nil {
		h.Fail(w, "RECORDS", err)
		return
	}

	ids, err := h.Records.InsertBatch(r.Context(), recs)
	if err != nil {
		h.Fail(w, "RECORDS", err)
		return
	}

	h.JSON(w, http.StatusCreated, map[string]any{"ids": ids})
}

// ListRecords handles GET /crm/records?skip&limit. Records come back in
// insertion order as a plain array; skip past the end yields an empty one.
func (h *Handlers) ListRecords(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil || skip < 0 {
		h.JSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "skip must be a non-negative integer", "fields": []string{"skip"}})
		return
	}

	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil || limit < 1 || limit > maxLimit {
		h.JSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "limit must be an integer between 1 and 1000", "fields": []string{"limit"}})
		return
	}

	recs, total, err := h.Records.List(r.Context(), skip, limit)
	if err != nil {
		h.Fail(w, "RECORDS", err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	h.JSON(w, http.StatusOK, recs)
}

// GetRecord handles GET /crm/records/{id}.
func (h *Handlers) GetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Records.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.Fail(w, "RECORDS", err)
		return
	}

	h.JSON(w, http.StatusOK, rec)
}

// UpdateRecord handles PUT /crm/records/{id}.
func (h *Handlers) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := models.DecodeRecord(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.Fail(w, "RECORDS", err)
		return
	}

	updated, err := h.Records.Replace(r.Context(), r.PathValue("id"), rec)
	if err != nil {
		h.Fail(w, "RECORDS", err)
		return
	}

	h.JSON(w, http.StatusOK, map[string]any{"id": updated.ID, "record": updated})
}

// DeleteRecord handles DELETE /crm/records/{id}.
func (h *Handlers) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.Records.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		h.Fail(w, "RECORDS", err)
		return
	}

	h.JSON(w, http.StatusOK, map[string]any{"id": deleted.ID, "deleted_record": deleted})
}

func queryInt(r *http.Request, key string, def int64) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}
