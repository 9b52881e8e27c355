package handlers

import (
	"context"
	"log"
	"net/http"
	"testing"

	"crm_records_api/internal/models"
	"crm_records_api/internal/repository/sysconfig"
)

type fakeConfigStore struct {
	stored *models.StoredConfig
}

func (f *fakeConfigStore) Get(_ context.Context) (models.StoredConfig, error) {
	if f.stored == nil {
		return models.StoredConfig{}, sysconfig.ErrNotFound
	}
	return *f.stored, nil
}

func (f *fakeConfigStore) Put(_ context.Context, cfg models.SystemConfig) (models.StoredConfig, bool, error) {
	created := f.stored == nil
	f.stored = &models.StoredConfig{SystemConfig: cfg}
	return *f.stored, created, nil
}

func (f *fakeConfigStore) Replace(ctx context.Context, cfg models.SystemConfig) (models.StoredConfig, error) {
	if f.stored == nil {
		return models.StoredConfig{}, sysconfig.ErrNotFound
	}
	return f.Get(ctx)
}

func (f *fakeConfigStore) Delete(ctx context.Context) (models.StoredConfig, error) {
	out, err := f.Get(ctx)
	if err != nil {
		return out, err
	}
	f.stored = nil
	return out, nil
}

func configHandlers(store ConfigStore) *Handlers {
	return &Handlers{Config: store, Logger: log.Default()}
}

func TestGetConfig_emptyWhenMissing(t *testing.T) {
	h := configHandlers(&fakeConfigStore{})

	rr := doJSON(t, h.GetConfig, "GET", "/config", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var cfg models.SystemConfig
	decodeBody(t, rr, &cfg)
	if cfg.Consultants == nil || len(cfg.Consultants) != 0 {
		t.Fatalf("expected empty consultants array, got %v", cfg.Consultants)
	}
}

func TestCreateConfig_created(t *testing.T) {
	store := &fakeConfigStore{}
	h := configHandlers(store)

	body := `{"consultants":[{"name":"Maria","team":"A"}],"statuses":["Ativo"],"services":[],"plans":[{"name":"Premium","value":199.9}],"addon_packages":[]}`
	rr := doJSON(t, h.CreateConfig, "POST", "/config", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if store.stored == nil || len(store.stored.Plans) != 1 {
		t.Fatalf("config not saved: %+v", store.stored)
	}
}

func TestCreateConfig_rejectsInvalidPlan(t *testing.T) {
	h := configHandlers(&fakeConfigStore{})

	body := `{"consultants":[],"statuses":[],"services":[],"plans":[{"name":"Premium","value":-1}],"addon_packages":[]}`
	rr := doJSON(t, h.CreateConfig, "POST", "/config", body)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
}

func TestUpdateConfig_notFoundWithoutExisting(t *testing.T) {
	h := configHandlers(&fakeConfigStore{})

	rr := doJSON(t, h.UpdateConfig, "PUT", "/config", `{"consultants":[],"statuses":[],"services":[],"plans":[],"addon_packages":[]}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDeleteConfig_removes(t *testing.T) {
	store := &fakeConfigStore{stored: &models.StoredConfig{SystemConfig: models.EmptyConfig()}}
	h := configHandlers(store)

	rr := doJSON(t, h.DeleteConfig, "DELETE", "/config", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if store.stored != nil {
		t.Fatal("config should be gone")
	}

	rr = doJSON(t, h.DeleteConfig, "DELETE", "/config", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}
}
