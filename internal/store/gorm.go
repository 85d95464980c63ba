package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/guit-county/guit-portal/internal/db/models"
)

const (
	whereCollection   = "collection = ?"
	whereCollectionID = "collection = ? AND id = ?"
)

// GormStore keeps documents in a relational database through gorm.
type GormStore struct {
	db *gorm.DB
	// rowLock enables SELECT ... FOR UPDATE inside Update.
	rowLock bool
}

// NewGorm returns a store on an opened and migrated gorm connection.
func NewGorm(db *gorm.DB) *GormStore {
	return &GormStore{
		db:      db,
		rowLock: db.Dialector.Name() != "sqlite",
	}
}

func toDocument(row *models.Document, keys []string) Document {
	return Document{
		ID:         row.ID,
		Collection: row.Collection,
		Status:     row.Status,
		SortKey:    row.SortKey,
		Data:       []byte(row.Data),
		Keys:       keys,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

func toRow(doc *Document) models.Document {
	return models.Document{
		ID:         doc.ID,
		Collection: doc.Collection,
		Status:     doc.Status,
		SortKey:    doc.SortKey,
		Data:       datatypes.JSON(doc.Data),
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

func (s *GormStore) filter(ctx context.Context, collection string, q Query) *gorm.DB {
	tx := s.db.WithContext(ctx).Model(&models.Document{}).Where(whereCollection, collection)

	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}

	if q.NotStatus != "" {
		tx = tx.Where("status <> ?", q.NotStatus)
	}

	return tx
}

func orderColumns(o Order) []clause.OrderByColumn {
	var cols []string

	switch o.Field {
	case OrderCreated:
		cols = []string{"created_at", "id"}
	case OrderSortKey:
		cols = []string{"sort_key", "created_at", "id"}
	default:
		cols = []string{"updated_at", "id"}
	}

	out := make([]clause.OrderByColumn, 0, len(cols))
	for _, c := range cols {
		out = append(out, clause.OrderByColumn{Column: clause.Column{Name: c}, Desc: o.Desc})
	}

	return out
}

// List implements Store.
func (s *GormStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	if collection == "" {
		return nil, ErrEmptyCollection
	}

	tx := s.filter(ctx, collection, q)
	for _, col := range orderColumns(q.Order) {
		tx = tx.Order(col)
	}

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []models.Document
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	keys, err := s.keysOf(ctx, s.db, collection, rows...)
	if err != nil {
		return nil, err
	}

	out := make([]Document, 0, len(rows))
	for i := range rows {
		out = append(out, toDocument(&rows[i], keys[rows[i].ID]))
	}

	return out, nil
}

// Count implements Store.
func (s *GormStore) Count(ctx context.Context, collection string, q Query) (int64, error) {
	if collection == "" {
		return 0, ErrEmptyCollection
	}

	var n int64
	err := s.filter(ctx, collection, q).Count(&n).Error

	return n, err
}

// First implements Store.
func (s *GormStore) First(ctx context.Context, collection string, q Query) (Document, error) {
	q.Limit = 1

	docs, err := s.List(ctx, collection, q)
	if err != nil {
		return Document{}, err
	}

	if len(docs) == 0 {
		return Document{}, ErrNotFound
	}

	return docs[0], nil
}

// Get implements Store.
func (s *GormStore) Get(ctx context.Context, collection, id string) (Document, error) {
	return s.get(ctx, s.db, collection, id, false)
}

func (s *GormStore) get(ctx context.Context, db *gorm.DB, collection, id string, lock bool) (Document, error) {
	if collection == "" {
		return Document{}, ErrEmptyCollection
	}

	tx := db.WithContext(ctx)
	if lock && s.rowLock {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var row models.Document
	if err := tx.Where(whereCollectionID, collection, id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Document{}, ErrNotFound
		}

		return Document{}, err
	}

	keys, err := s.keysOf(ctx, db, collection, row)
	if err != nil {
		return Document{}, err
	}

	return toDocument(&row, keys[row.ID]), nil
}

// FindByKey implements Store.
func (s *GormStore) FindByKey(ctx context.Context, collection, key string) (Document, error) {
	if collection == "" {
		return Document{}, ErrEmptyCollection
	}

	var k models.DocumentKey

	err := s.db.WithContext(ctx).
		Where("collection = ? AND name = ?", collection, key).
		First(&k).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Document{}, ErrNotFound
		}

		return Document{}, err
	}

	return s.Get(ctx, collection, k.DocumentID)
}

// Create implements Store.
func (s *GormStore) Create(ctx context.Context, doc *Document) error {
	if doc.Collection == "" {
		return ErrEmptyCollection
	}

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	doc.CreatedAt = now()
	doc.UpdatedAt = doc.CreatedAt

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.reserveKeys(tx, doc); err != nil {
			return err
		}

		row := toRow(doc)

		return translate(tx.Create(&row).Error)
	})
}

// Update implements Store.
func (s *GormStore) Update(ctx context.Context, collection, id string, fn Mutator) (Document, error) {
	var out Document

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, err := s.get(ctx, tx, collection, id, true)
		if err != nil {
			return err
		}

		oldKeys, created, seen := doc.Keys, doc.CreatedAt, doc.UpdatedAt

		if err = fn(&doc); err != nil {
			return err
		}

		// identity is owned by the store
		doc.ID, doc.Collection, doc.CreatedAt = id, collection, created

		doc.UpdatedAt = now()
		if !doc.UpdatedAt.After(seen) {
			doc.UpdatedAt = seen.Add(time.Millisecond)
		}

		if !sameKeys(oldKeys, doc.Keys) {
			if err = tx.Where("document_id = ?", id).Delete(&models.DocumentKey{}).Error; err != nil {
				return err
			}

			if err = s.reserveKeys(tx, &doc); err != nil {
				return err
			}
		}

		row := toRow(&doc)

		err = tx.Model(&models.Document{}).
			Where(whereCollectionID, collection, id).
			Updates(map[string]any{
				"status":     row.Status,
				"sort_key":   row.SortKey,
				"data":       row.Data,
				"updated_at": row.UpdatedAt,
			}).Error
		if err != nil {
			return err
		}

		out = doc

		return nil
	})

	return out, err
}

// Delete implements Store.
func (s *GormStore) Delete(ctx context.Context, collection, id string) error {
	if collection == "" {
		return ErrEmptyCollection
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(whereCollectionID, collection, id).Delete(&models.Document{}).Error; err != nil {
			return err
		}

		return tx.Where("collection = ? AND document_id = ?", collection, id).Delete(&models.DocumentKey{}).Error
	})
}

// Close implements Store.
func (s *GormStore) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// reserveKeys inserts the unique keys of doc, failing with ErrDuplicateKey if one is taken.
func (s *GormStore) reserveKeys(tx *gorm.DB, doc *Document) error {
	if len(doc.Keys) == 0 {
		return nil
	}

	var taken int64

	err := tx.Model(&models.DocumentKey{}).
		Where("collection = ? AND name IN ? AND document_id <> ?", doc.Collection, doc.Keys, doc.ID).
		Count(&taken).Error
	if err != nil {
		return err
	}

	if taken > 0 {
		return ErrDuplicateKey
	}

	rows := make([]models.DocumentKey, 0, len(doc.Keys))
	for _, k := range doc.Keys {
		rows = append(rows, models.DocumentKey{Collection: doc.Collection, Name: k, DocumentID: doc.ID})
	}

	return translate(tx.Create(&rows).Error)
}

// keysOf loads the unique keys of rows, grouped by document id.
func (s *GormStore) keysOf(
	ctx context.Context, db *gorm.DB, collection string, rows ...models.Document,
) (map[string][]string, error) {
	out := make(map[string][]string, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].ID)
	}

	var keys []models.DocumentKey

	err := db.WithContext(ctx).
		Where("collection = ? AND document_id IN ?", collection, ids).
		Order("id").
		Find(&keys).Error
	if err != nil {
		return nil, err
	}

	for _, k := range keys {
		out[k.DocumentID] = append(out[k.DocumentID], k.Name)
	}

	return out, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}

	return err
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	seen := make(map[string]int, len(a))
	for _, k := range a {
		seen[k]++
	}

	for _, k := range b {
		if seen[k] == 0 {
			return false
		}

		seen[k]--
	}

	return true
}
