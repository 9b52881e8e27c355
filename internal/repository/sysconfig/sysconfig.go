package sysconfig

import (
	"context"
	"errors"
	"fmt"
	"time"

	mg "crm_records_api/internal/config/connections/mongo"
	"crm_records_api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound means no configuration document has been saved yet.
var ErrNotFound = errors.New("configuration not found")

// Repo manages the single reference-data configuration document. The
// collection holds at most one document, so every query filters on the
// empty document.
type Repo struct {
	m    *mg.Mongo
	coll string
}

func New(m *mg.Mongo, collection string) *Repo {
	return &Repo{m: m, coll: collection}
}

func (r *Repo) collection() *mongo.Collection {
	return r.m.Database.Collection(r.coll)
}

type storedDoc struct {
	models.SystemConfig `bson:",inline"`
	CreatedAt           time.Time `bson:"created_at"`
	UpdatedAt           time.Time `bson:"updated_at"`
}

func (r *Repo) Get(ctx context.Context) (models.StoredConfig, error) {
	var out models.StoredConfig
	if r.m == nil || r.m.Database == nil {
		return out, mongo.ErrClientDisconnected
	}

	if err := r.collection().FindOne(ctx, bson.M{}).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return out, ErrNotFound
		}
		return out, fmt.Errorf("find config: %w", err)
	}
	return out, nil
}

// Put saves the configuration, replacing any existing document. It reports
// whether a new document was created. The original created_at survives a
// replacement.
func (r *Repo) Put(ctx context.Context, cfg models.SystemConfig) (models.StoredConfig, bool, error) {
	var out models.StoredConfig
	if r.m == nil || r.m.Database == nil {
		return out, false, mongo.ErrClientDisconnected
	}

	now := time.Now().UTC()
	doc := storedDoc{SystemConfig: cfg, CreatedAt: now, UpdatedAt: now}

	existing, err := r.Get(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
		if _, err := r.collection().InsertOne(ctx, doc); err != nil {
			return out, false, fmt.Errorf("insert config: %w", err)
		}
		out, err := r.Get(ctx)
		return out, true, err
	case err != nil:
		return out, false, err
	}

	doc.CreatedAt = existing.CreatedAt
	if _, err := r.collection().ReplaceOne(ctx, bson.M{}, doc); err != nil {
		return out, false, fmt.Errorf("replace config: %w", err)
	}
	out, err = r.Get(ctx)
	return out, false, err
}

// Replace overwrites the existing configuration and fails with ErrNotFound
// when none has been saved.
func (r *Repo) Replace(ctx context.Context, cfg models.SystemConfig) (models.StoredConfig, error) {
	var out models.StoredConfig

	existing, err := r.Get(ctx)
	if err != nil {
		return out, err
	}

	doc := storedDoc{SystemConfig: cfg, CreatedAt: existing.CreatedAt, UpdatedAt: time.Now().UTC()}
	if _, err := r.collection().ReplaceOne(ctx, bson.M{}, doc); err != nil {
		return out, fmt.Errorf("replace config: %w", err)
	}
	return r.Get(ctx)
}

// Delete removes the configuration and returns what was stored.
func (r *Repo) Delete(ctx context.Context) (models.StoredConfig, error) {
	out, err := r.Get(ctx)
	if err != nil {
		return out, err
	}

	if _, err := r.collection().DeleteOne(ctx, bson.M{}); err != nil {
		return out, fmt.Errorf("delete config: %w", err)
	}
	return out, nil
}
