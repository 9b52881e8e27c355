package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"crm_records_api/internal/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeader = []any{
	"id", "uf", "ddd", "adabas", "responsible_party", "delivery_date",
	"crm_code", "simulation_code", "order_code", "company_name", "tax_id",
	"services", "plan_name", "plan_value", "device_quantity", "device_value",
	"addon_quantity", "addon_package", "addon_value", "current_value",
	"renewal_value", "migration_flag", "source_flag", "quantity", "status",
	"status_date", "history_notes", "consultant", "team", "created_at",
}

// ExportRecords handles POST /crm/records/export: snapshots the whole
// collection into an XLSX workbook and stores it in the exports bucket.
func (h *Handlers) ExportRecords(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	recs, err := h.Records.All(r.Context())
	if err != nil {
		h.Fail(w, "EXPORT", err)
		return
	}

	buf, err := buildWorkbook(recs)
	if err != nil {
		h.Logger.Printf("[EXPORT][ERR] workbook: %v", err)
		h.JSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to build workbook: " + err.Error()})
		return
	}

	key := fmt.Sprintf("exports/%s.xlsx", uuid.NewString())
	_, err = h.S3.Client.PutObject(r.Context(), h.S3.Bucket, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		minio.PutObjectOptions{ContentType: xlsxContentType})
	if err != nil {
		h.Logger.Printf("[EXPORT][ERR] s3 put: %v", err)
		h.JSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to store export: " + err.Error()})
		return
	}

	h.Logger.Printf("[EXPORT][OK] rows=%d bucket=%q key=%q took=%s", len(recs), h.S3.Bucket, key, time.Since(start))

	h.JSON(w, http.StatusCreated, map[string]any{
		"path":   fmt.Sprintf("s3://%s/%s", h.S3.Bucket, key),
		"bucket": h.S3.Bucket,
		"key":    key,
		"count":  len(recs),
	})
}

func buildWorkbook(recs []models.StoredRecord) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, err
	}

	for i, rec := range recs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := recordRow(rec)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}

func recordRow(rec models.StoredRecord) []any {
	return []any{
		rec.ID.Hex(),
		strVal(rec.UF), strVal(rec.DDD), strVal(rec.Adabas),
		strVal(rec.ResponsibleParty), strVal(rec.DeliveryDate),
		strVal(rec.CRMCode), strVal(rec.SimulationCode), strVal(rec.OrderCode),
		strVal(rec.CompanyName), strVal(rec.TaxID),
		strVal(rec.Services), strVal(rec.PlanName),
		numVal(rec.PlanValue), intVal(rec.DeviceQuantity), numVal(rec.DeviceValue),
		intVal(rec.AddonQuantity), strVal(rec.AddonPackage), numVal(rec.AddonValue),
		numVal(rec.CurrentValue), numVal(rec.RenewalValue),
		strVal(rec.MigrationFlag), strVal(rec.SourceFlag), intVal(rec.Quantity),
		strVal(rec.Status), strVal(rec.StatusDate), strVal(rec.HistoryNotes),
		strVal(rec.Consultant), strVal(rec.Team),
		rec.CreatedAt.Format(time.RFC3339),
	}
}

func strVal(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func numVal(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func intVal(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
