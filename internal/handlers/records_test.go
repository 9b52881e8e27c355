package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crm_records_api/internal/models"
	"crm_records_api/internal/repository/records"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRecordStore struct {
	docs map[string]models.StoredRecord
	ids  []string

	listSkip  int64
	listLimit int64

	failWith error
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{docs: map[string]models.StoredRecord{}}
}

func (f *fakeRecordStore) put(rec models.CRMRecord) string {
	oid := primitive.NewObjectID()
	f.docs[oid.Hex()] = models.StoredRecord{ID: oid, CRMRecord: rec}
	f.ids = append(f.ids, oid.Hex())
	return oid.Hex()
}

func (f *fakeRecordStore) Insert(_ context.Context, rec models.CRMRecord) (string, error) {
	if f.failWith != nil {
		return "", f.failWith
	}
	return f.put(rec), nil
}

func (f *fakeRecordStore) InsertBatch(_ context.Context, recs []models.CRMRecord) ([]string, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if len(recs) == 0 {
		return nil, records.ErrEmptyBatch
	}
	out := make([]string, 0, len(recs))
	for _, rec := range recs {
		out = append(out, f.put(rec))
	}
	return out, nil
}

func (f *fakeRecordStore) List(_ context.Context, skip, limit int64) ([]models.StoredRecord, int64, error) {
	if f.failWith != nil {
		return nil, 0, f.failWith
	}
	f.listSkip, f.listLimit = skip, limit

	out := make([]models.StoredRecord, 0)
	for i := skip; i < int64(len(f.ids)) && int64(len(out)) < limit; i++ {
		out = append(out, f.docs[f.ids[i]])
	}
	return out, int64(len(f.ids)), nil
}

func (f *fakeRecordStore) All(ctx context.Context) ([]models.StoredRecord, error) {
	out, _, err := f.List(ctx, 0, int64(len(f.ids))+1)
	return out, err
}

func (f *fakeRecordStore) FindByID(_ context.Context, id string) (models.StoredRecord, error) {
	if f.failWith != nil {
		return models.StoredRecord{}, f.failWith
	}
	if id == "" {
		return models.StoredRecord{}, records.ErrInvalidID
	}
	rec, ok := f.docs[id]
	if !ok {
		return models.StoredRecord{}, records.ErrNotFound
	}
	return rec, nil
}

func (f *fakeRecordStore) Replace(ctx context.Context, id string, rec models.CRMRecord) (models.StoredRecord, error) {
	stored, err := f.FindByID(ctx, id)
	if err != nil {
		return stored, err
	}
	stored.CRMRecord = rec
	f.docs[id] = stored
	return stored, nil
}

func (f *fakeRecordStore) Delete(ctx context.Context, id string) (models.StoredRecord, error) {
	stored, err := f.FindByID(ctx, id)
	if err != nil {
		return stored, err
	}
	delete(f.docs, id)
	return stored, nil
}

func testHandlers(store RecordStore) *Handlers {
	return &Handlers{Records: store, Logger: log.Default()}
}

func doJSON(t *testing.T, h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("bad response body %q: %v", rr.Body.String(), err)
	}
}

func TestCreateRecord_created(t *testing.T) {
	store := newFakeRecordStore()
	h := testHandlers(store)

	rr := doJSON(t, h.CreateRecord, "POST", "/crm/records", `{"uf":"SP","crm_code":"CRM001","plan_value":299.90}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		ID string `json:"id"`
	}
	decodeBody(t, rr, &resp)
	if resp.ID == "" {
		t.Fatal("expected an assigned id")
	}

	stored, err := store.FindByID(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("inserted record not resolvable: %v", err)
	}
	if stored.PlanValue == nil || *stored.PlanValue != 299.90 {
		t.Fatalf("plan_value lost on insert: %v", stored.PlanValue)
	}
}

func TestCreateRecord_unknownField(t *testing.T) {
	h := testHandlers(newFakeRecordStore())

	rr := doJSON(t, h.CreateRecord, "POST", "/crm/records", `{"uf":"SP","bogus":"x"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}

	var resp struct {
		Fields []string `json:"fields"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.Fields) != 1 || resp.Fields[0] != "bogus" {
		t.Fatalf("expected offending field, got %v", resp.Fields)
	}
}

func TestCreateRecord_storageFailure(t *testing.T) {
	store := newFakeRecordStore()
	store.failWith = context.DeadlineExceeded
	h := testHandlers(store)

	rr := doJSON(t, h.CreateRecord, "POST", "/crm/records", `{"uf":"SP"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestCreateRecordBatch_created(t *testing.T) {
	store := newFakeRecordStore()
	h := testHandlers(store)

	rr := doJSON(t, h.CreateRecordBatch, "POST", "/crm/records/batch", `[{"crm_code":"A"},{"crm_code":"B"},{"crm_code":"C"}]`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		IDs []string `json:"ids"`
	}
	decodeBody(t, rr, &resp)
	if len(resp.IDs) != 3 {
		t.Fatalf("expected 3 ids, got %v", resp.IDs)
	}
	for _, id := range resp.IDs {
		if _, err := store.FindByID(context.Background(), id); err != nil {
			t.Fatalf("batch id %q not resolvable: %v", id, err)
		}
	}
}

func TestCreateRecordBatch_emptyRejected(t *testing.T) {
	store := newFakeRecordStore()
	h := testHandlers(store)

	rr := doJSON(t, h.CreateRecordBatch, "POST", "/crm/records/batch", `[]`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if len(store.docs) != 0 {
		t.Fatal("empty batch must not write")
	}
}

func TestCreateRecordBatch_invalidElementRejectsWhole(t *testing.T) {
	store := newFakeRecordStore()
	h := testHandlers(store)

	rr := doJSON(t, h.CreateRecordBatch, "POST", "/crm/records/batch", `[{"crm_code":"A"},{"plan_value":-5}]`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if len(store.docs) != 0 {
		t.Fatal("invalid batch must not write")
	}
}

func TestListRecords_defaults(t *testing.T) {
	store := newFakeRecordStore()
	h := testHandlers(store)

	rr := doJSON(t, h.ListRecords, "GET", "/crm/records", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if store.listSkip != 0 || store.listLimit != 100 {
		t.Fatalf("expected defaults skip=0 limit=100, got %d/%d", store.listSkip, store.listLimit)
	}
	if body := strings.TrimSpace(rr.Body.String()); body != "[]" {
		t.Fatalf("empty collection should serialize as [], got %q", body)
	}
}

func TestListRecords_pagination(t *testing.T) {
	store := newFakeRecordStore()
	for _, code := range []string{"A", "B", "C", "D", "E"} {
		c := code
		store.put(models.CRMRecord{CRMCode: &c})
	}
	h := testHandlers(store)

	rr := doJSON(t, h.ListRecords, "GET", "/crm/records?skip=0&limit=2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var recs []models.StoredRecord
	decodeBody(t, rr, &recs)
	if len(recs) != 2 {
		t.Fatalf("expected exactly 2 records, got %d", len(recs))
	}
	if *recs[0].CRMCode != "A" || *recs[1].CRMCode != "B" {
		t.Fatalf("records out of insertion order: %v %v", *recs[0].CRMCode, *recs[1].CRMCode)
	}
}

func TestListRecords_badParams(t *testing.T) {
	h := testHandlers(newFakeRecordStore())

	for _, target := range []string{
		"/crm/records?skip=abc",
		"/crm/records?skip=-1",
		"/crm/records?limit=0",
		"/crm/records?limit=abc",
		"/crm/records?limit=5000",
	} {
		rr := doJSON(t, h.ListRecords, "GET", target, "")
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("%s: expected 422, got %d", target, rr.Code)
		}
	}
}

func TestGetRecord_roundTrip(t *testing.T) {
	store := newFakeRecordStore()
	uf, code, value := "SP", "CRM001", 299.90
	id := store.put(models.CRMRecord{UF: &uf, CRMCode: &code, PlanValue: &value})
	h := testHandlers(store)

	req := httptest.NewRequest("GET", "/crm/records/"+id, nil)
	req.SetPathValue("id", id)
	rr := httptest.NewRecorder()
	h.GetRecord(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var rec models.StoredRecord
	decodeBody(t, rr, &rec)
	if rec.ID.Hex() != id {
		t.Fatalf("id mismatch: %s vs %s", rec.ID.Hex(), id)
	}
	if rec.UF == nil || *rec.UF != "SP" || rec.PlanValue == nil || *rec.PlanValue != 299.90 {
		t.Fatalf("fields did not round-trip: %+v", rec)
	}
	if rec.Status != nil {
		t.Fatal("unsubmitted field should stay absent")
	}
}

func TestGetRecord_notFound(t *testing.T) {
	h := testHandlers(newFakeRecordStore())

	id := primitive.NewObjectID().Hex()
	req := httptest.NewRequest("GET", "/crm/records/"+id, nil)
	req.SetPathValue("id", id)
	rr := httptest.NewRecorder()
	h.GetRecord(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGetRecord_unassignedOpaqueID(t *testing.T) {
	h := testHandlers(newFakeRecordStore())

	req := httptest.NewRequest("GET", "/crm/records/does-not-exist", nil)
	req.SetPathValue("id", "does-not-exist")
	rr := httptest.NewRecorder()
	h.GetRecord(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestUpdateRecord_replacesFields(t *testing.T) {
	store := newFakeRecordStore()
	uf := "SP"
	id := store.put(models.CRMRecord{UF: &uf})
	h := testHandlers(store)

	req := httptest.NewRequest("PUT", "/crm/records/"+id, strings.NewReader(`{"uf":"RJ","status":"Ativo"}`))
	req.SetPathValue("id", id)
	rr := httptest.NewRecorder()
	h.UpdateRecord(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	stored, _ := store.FindByID(context.Background(), id)
	if stored.UF == nil || *stored.UF != "RJ" {
		t.Fatalf("uf not updated: %v", stored.UF)
	}
}

func TestUpdateRecord_notFound(t *testing.T) {
	h := testHandlers(newFakeRecordStore())

	id := primitive.NewObjectID().Hex()
	req := httptest.NewRequest("PUT", "/crm/records/"+id, strings.NewReader(`{"uf":"RJ"}`))
	req.SetPathValue("id", id)
	rr := httptest.NewRecorder()
	h.UpdateRecord(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDeleteRecord_removes(t *testing.T) {
	store := newFakeRecordStore()
	uf := "SP"
	id := store.put(models.CRMRecord{UF: &uf})
	h := testHandlers(store)

	req := httptest.NewRequest("DELETE", "/crm/records/"+id, nil)
	req.SetPathValue("id", id)
	rr := httptest.NewRecorder()
	h.DeleteRecord(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if _, err := store.FindByID(context.Background(), id); err == nil {
		t.Fatal("record should be gone")
	}
}
