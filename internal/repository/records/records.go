package records

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	mg "crm_records_api/internal/config/connections/mongo"
	"crm_records_api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound means no record carries the given identifier.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidID means the identifier is empty or otherwise unusable.
	ErrInvalidID = errors.New("malformed record id")
	// ErrEmptyBatch rejects a batch insert with nothing in it.
	ErrEmptyBatch = errors.New("empty batch")
)

// Repo owns all reads and writes against the CRM records collection.
// Identifier assignment happens here and nowhere else.
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
	models.CRMRecord `bson:",inline"`
	CreatedAt        time.Time `bson:"created_at"`
	UpdatedAt        time.Time `bson:"updated_at"`
}

// Insert persists one record and returns the hex of the assigned ObjectID.
func (r *Repo) Insert(ctx context.Context, rec models.CRMRecord) (string, error) {
	if r.m == nil || r.m.Database == nil {
		return "", mongo.ErrClientDisconnected
	}

	now := time.Now().UTC()
	res, err := r.collection().InsertOne(ctx, storedDoc{CRMRecord: rec, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprintf("%v", res.InsertedID), nil
	}
	return oid.Hex(), nil
}

// InsertBatch persists the records in one ordered InsertMany and returns one
// identifier per input, in input order. The write is best-effort: a
// store-side failure stops the batch but does not roll back documents
// already written before it.
func (r *Repo) InsertBatch(ctx context.Context, recs []models.CRMRecord) ([]string, error) {
	if r.m == nil || r.m.Database == nil {
		return nil, mongo.ErrClientDisconnected
	}
	if len(recs) == 0 {
		return nil, ErrEmptyBatch
	}

	now := time.Now().UTC()
	docs := make([]any, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, storedDoc{CRMRecord: rec, CreatedAt: now, UpdatedAt: now})
	}

	res, err := r.collection().InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}

	ids := make([]string, 0, len(res.InsertedIDs))
	for _, id := range res.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok {
			ids = append(ids, oid.Hex())
		} else {
			ids = append(ids, fmt.Sprintf("%v", id))
		}
	}
	return ids, nil
}

// List returns up to limit records after skipping skip, in the collection's
// natural (insertion) order, together with the total document count.
func (r *Repo) List(ctx context.Context, skip, limit int64) ([]models.StoredRecord, int64, error) {
	if r.m == nil || r.m.Database == nil {
		return nil, 0, mongo.ErrClientDisconnected
	}

	opts := options.Find()
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	defer cur.Close(ctx)

	recs := make([]models.StoredRecord, 0)
	if err := cur.All(ctx, &recs); err != nil {
		return nil, 0, fmt.Errorf("decode records: %w", err)
	}

	total, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("[RECORDS][ERR] count documents: %v — falling back to page length", err)
		total = int64(len(recs))
	}
	return recs, total, nil
}

// All streams every record, for exports.
func (r *Repo) All(ctx context.Context) ([]models.StoredRecord, error) {
	recs, _, err := r.List(ctx, 0, 0)
	return recs, err
}

// idFilter treats the identifier as an opaque token: hex ids resolve as
// ObjectIDs, anything else is matched literally and simply finds nothing.
func idFilter(id string) (bson.M, error) {
	if id == "" {
		return nil, ErrInvalidID
	}
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}, nil
	}
	return bson.M{"_id": id}, nil
}

// FindByID resolves one record by its identifier. An identifier that was
// never assigned yields ErrNotFound, not a failure.
func (r *Repo) FindByID(ctx context.Context, id string) (models.StoredRecord, error) {
	var out models.StoredRecord
	if r.m == nil || r.m.Database == nil {
		return out, mongo.ErrClientDisconnected
	}

	filter, err := idFilter(id)
	if err != nil {
		return out, err
	}

	if err := r.collection().FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return out, ErrNotFound
		}
		return out, fmt.Errorf("find record: %w", err)
	}
	return out, nil
}

// Replace overwrites the submitted fields of an existing record. Fields
// absent from rec are left as stored; created_at is preserved and
// updated_at refreshed.
func (r *Repo) Replace(ctx context.Context, id string, rec models.CRMRecord) (models.StoredRecord, error) {
	var out models.StoredRecord
	if r.m == nil || r.m.Database == nil {
		return out, mongo.ErrClientDisconnected
	}

	filter, err := idFilter(id)
	if err != nil {
		return out, err
	}

	raw, err := bson.Marshal(rec)
	if err != nil {
		return out, fmt.Errorf("encode record: %w", err)
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return out, fmt.Errorf("encode record: %w", err)
	}
	set["updated_at"] = time.Now().UTC()

	res, err := r.collection().UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return out, fmt.Errorf("update record: %w", err)
	}
	if res.MatchedCount == 0 {
		return out, ErrNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes one record and returns the document as it was stored.
func (r *Repo) Delete(ctx context.Context, id string) (models.StoredRecord, error) {
	out, err := r.FindByID(ctx, id)
	if err != nil {
		return out, err
	}

	if _, err := r.collection().DeleteOne(ctx, bson.M{"_id": out.ID}); err != nil {
		return out, fmt.Errorf("delete record: %w", err)
	}
	return out, nil
}
