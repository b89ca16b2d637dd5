package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/pkg/utils"
)

var _ JournalStore = (*Mongo)(nil)

// Collection names.
const (
	EntriesCollection = "journal_entries"
	MoodsCollection   = "mood_entries"
	DraftsCollection  = "journal_drafts"
)

// Mongo stores entries, moods and drafts as documents. When a sealer is set,
// entry text is encrypted before it is written and decrypted on read.
type Mongo struct {
	db     *mongo.Database
	sealer *utils.Sealer
}

// NewMongo wraps a database handle. sealer may be nil.
func NewMongo(db *mongo.Database, sealer *utils.Sealer) *Mongo {
	return &Mongo{db: db, sealer: sealer}
}

// EnsureIndexes creates the per-user listing indexes.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	indexes := map[string]mongo.IndexModel{
		EntriesCollection: {
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_user_created"),
		},
		MoodsCollection: {
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_user_timestamp"),
		},
	}
	for name, model := range indexes {
		if _, err := m.db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", name, err)
		}
	}
	return nil
}

func (m *Mongo) InsertEntry(ctx context.Context, e *models.JournalEntry) error {
	doc := *e
	if m.sealer != nil && doc.Text != "" {
		sealed, err := m.sealer.Seal(doc.Text)
		if err != nil {
			return fmt.Errorf("seal entry: %w", err)
		}
		doc.Text = sealed
		doc.Sealed = true
	}
	if _, err := m.db.Collection(EntriesCollection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (m *Mongo) UpdateAnalysis(ctx context.Context, userID, id string, status models.AnalysisStatus, a *models.Analysis) error {
	set := bson.M{"analysis_status": status}
	if a != nil {
		set["analysis"] = a
	}
	res, err := m.db.Collection(EntriesCollection).UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("update analysis: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Entry(ctx context.Context, userID, id string) (*models.JournalEntry, error) {
	var e models.JournalEntry
	err := m.db.Collection(EntriesCollection).FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := m.open(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (m *Mongo) ListEntries(ctx context.Context, userID string, limit, skip int) ([]models.JournalEntry, int64, error) {
	col := m.db.Collection(EntriesCollection)
	filter := bson.M{"user_id": userID}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	cursor, err := col.Find(ctx, filter, findPage("created_at", limit, skip))
	if err != nil {
		return nil, 0, fmt.Errorf("find entries: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []models.JournalEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, 0, err
	}
	for i := range entries {
		if err := m.open(&entries[i]); err != nil {
			return nil, 0, err
		}
	}
	return entries, total, nil
}

func (m *Mongo) InsertMood(ctx context.Context, me *models.MoodEntry) error {
	if _, err := m.db.Collection(MoodsCollection).InsertOne(ctx, me); err != nil {
		return fmt.Errorf("insert mood: %w", err)
	}
	return nil
}

func (m *Mongo) ListMoods(ctx context.Context, userID string, limit, skip int) ([]models.MoodEntry, int64, error) {
	col := m.db.Collection(MoodsCollection)
	filter := bson.M{"user_id": userID}

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count moods: %w", err)
	}

	cursor, err := col.Find(ctx, filter, findPage("timestamp", limit, skip))
	if err != nil {
		return nil, 0, fmt.Errorf("find moods: %w", err)
	}
	defer cursor.Close(ctx)

	moods := []models.MoodEntry{}
	if err := cursor.All(ctx, &moods); err != nil {
		return nil, 0, err
	}
	return moods, total, nil
}

func (m *Mongo) SaveDraft(ctx context.Context, d *models.Draft) error {
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now().UTC()
	}
	_, err := m.db.Collection(DraftsCollection).ReplaceOne(ctx,
		bson.M{"_id": d.UserID}, d, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (m *Mongo) Draft(ctx context.Context, userID string) (*models.Draft, error) {
	var d models.Draft
	err := m.db.Collection(DraftsCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (m *Mongo) DeleteDraft(ctx context.Context, userID string) error {
	if _, err := m.db.Collection(DraftsCollection).DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

func (m *Mongo) open(e *models.JournalEntry) error {
	if !e.Sealed {
		return nil
	}
	if m.sealer == nil {
		return errors.New("entry is sealed but no encryption key is configured")
	}
	text, err := m.sealer.Open(e.Text)
	if err != nil {
		return fmt.Errorf("open entry %s: %w", e.ID, err)
	}
	e.Text = text
	e.Sealed = false
	return nil
}

func findPage(sortField string, limit, skip int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: -1}})
	if skip > 0 {
		opts.SetSkip(int64(skip))
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}
