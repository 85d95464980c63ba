package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxUpdateAttempts bounds the compare-and-swap loop of MongoStore.Update.
const maxUpdateAttempts = 5

// ErrConflict is returned when a mongo update lost every compare-and-swap attempt.
var ErrConflict = errors.New("document changed concurrently")

// mongoDocument is the bson layout of a Document.
type mongoDocument struct {
	ID        string    `bson:"_id"`
	Status    string    `bson:"status"`
	SortKey   string    `bson:"sortKey"`
	Data      bson.D    `bson:"data"`
	Keys      []string  `bson:"keys"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore keeps every resource in its own mongodb collection.
type MongoStore struct {
	client  *mongo.Client
	db      *mongo.Database
	indexed sync.Map // collection name -> struct{}
}

// NewMongo connects to uri and uses database.
func NewMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStore{client: client, db: client.Database(database)}, nil
}

// collection returns the mongo collection, creating its indexes on first use.
func (s *MongoStore) collection(ctx context.Context, name string) (*mongo.Collection, error) {
	if name == "" {
		return nil, ErrEmptyCollection
	}

	coll := s.db.Collection(name)

	if _, done := s.indexed.Load(name); done {
		return coll, nil
	}

	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "updatedAt", Value: -1}}},
		{Keys: bson.D{{Key: "sortKey", Value: 1}}},
		{
			Keys: bson.D{{Key: "keys", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "keys.0", Value: bson.D{{Key: "$exists", Value: true}}}}),
		},
	})
	if err != nil {
		return nil, err
	}

	s.indexed.Store(name, struct{}{})

	return coll, nil
}

func mongoFilter(q Query) bson.D {
	f := bson.D{}

	switch {
	case q.Status != "" && q.NotStatus != "":
		f = append(f, bson.E{Key: "status", Value: bson.D{{Key: "$eq", Value: q.Status}, {Key: "$ne", Value: q.NotStatus}}})
	case q.Status != "":
		f = append(f, bson.E{Key: "status", Value: q.Status})
	case q.NotStatus != "":
		f = append(f, bson.E{Key: "status", Value: bson.D{{Key: "$ne", Value: q.NotStatus}}})
	}

	return f
}

func mongoSort(o Order) bson.D {
	dir := 1
	if o.Desc {
		dir = -1
	}

	switch o.Field {
	case OrderCreated:
		return bson.D{{Key: "createdAt", Value: dir}, {Key: "_id", Value: dir}}
	case OrderSortKey:
		return bson.D{{Key: "sortKey", Value: dir}, {Key: "createdAt", Value: dir}, {Key: "_id", Value: dir}}
	default:
		return bson.D{{Key: "updatedAt", Value: dir}, {Key: "_id", Value: dir}}
	}
}

func fromMongo(collection string, m *mongoDocument) (Document, error) {
	data := []byte("{}")

	if len(m.Data) > 0 {
		var err error

		data, err = bson.MarshalExtJSON(m.Data, false, false)
		if err != nil {
			return Document{}, err
		}
	}

	return Document{
		ID:         m.ID,
		Collection: collection,
		Status:     m.Status,
		SortKey:    m.SortKey,
		Data:       data,
		Keys:       m.Keys,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}, nil
}

func toMongo(doc *Document) (mongoDocument, error) {
	var data bson.D

	payload := doc.Data
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	if err := bson.UnmarshalExtJSON(payload, false, &data); err != nil {
		return mongoDocument{}, err
	}

	keys := doc.Keys
	if keys == nil {
		keys = []string{}
	}

	return mongoDocument{
		ID:        doc.ID,
		Status:    doc.Status,
		SortKey:   doc.SortKey,
		Data:      data,
		Keys:      keys,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}, nil
}

func translateMongo(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateKey
	default:
		return err
	}
}

// List implements Store.
func (s *MongoStore) List(ctx context.Context, collection string, q Query) ([]Document, error) {
	coll, err := s.collection(ctx, collection)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(mongoSort(q.Order))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := coll.Find(ctx, mongoFilter(q), opts)
	if err != nil {
		return nil, err
	}

	var rows []mongoDocument
	if err = cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]Document, 0, len(rows))

	for i := range rows {
		doc, err := fromMongo(collection, &rows[i])
		if err != nil {
			return nil, err
		}

		out = append(out, doc)
	}

	return out, nil
}

// Count implements Store.
func (s *MongoStore) Count(ctx context.Context, collection string, q Query) (int64, error) {
	coll, err := s.collection(ctx, collection)
	if err != nil {
		return 0, err
	}

	return coll.CountDocuments(ctx, mongoFilter(q))
}

// First implements Store.
func (s *MongoStore) First(ctx context.Context, collection string, q Query) (Document, error) {
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

func (s *MongoStore) findOne(ctx context.Context, collection string, filter bson.D) (Document, error) {
	coll, err := s.collection(ctx, collection)
	if err != nil {
		return Document{}, err
	}

	var row mongoDocument
	if err = coll.FindOne(ctx, filter).Decode(&row); err != nil {
		return Document{}, translateMongo(err)
	}

	return fromMongo(collection, &row)
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, collection, id string) (Document, error) {
	return s.findOne(ctx, collection, bson.D{{Key: "_id", Value: id}})
}

// FindByKey implements Store.
func (s *MongoStore) FindByKey(ctx context.Context, collection, key string) (Document, error) {
	return s.findOne(ctx, collection, bson.D{{Key: "keys", Value: key}})
}

// Create implements Store.
func (s *MongoStore) Create(ctx context.Context, doc *Document) error {
	coll, err := s.collection(ctx, doc.Collection)
	if err != nil {
		return err
	}

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	// mongo keeps milliseconds
	doc.CreatedAt = now()
	doc.UpdatedAt = doc.CreatedAt

	row, err := toMongo(doc)
	if err != nil {
		return err
	}

	_, err = coll.InsertOne(ctx, row)

	return translateMongo(err)
}

// Update implements Store.
// The write only succeeds if updatedAt is unchanged since the read, otherwise the
// document is read again. After maxUpdateAttempts lost swaps it returns ErrConflict.
func (s *MongoStore) Update(ctx context.Context, collection, id string, fn Mutator) (Document, error) {
	coll, err := s.collection(ctx, collection)
	if err != nil {
		return Document{}, err
	}

	for range maxUpdateAttempts {
		doc, err := s.Get(ctx, collection, id)
		if err != nil {
			return Document{}, err
		}

		seen, created := doc.UpdatedAt, doc.CreatedAt

		if err = fn(&doc); err != nil {
			return Document{}, err
		}

		doc.ID, doc.Collection, doc.CreatedAt = id, collection, created

		doc.UpdatedAt = now()
		if !doc.UpdatedAt.After(seen) {
			doc.UpdatedAt = seen.Add(time.Millisecond)
		}

		row, err := toMongo(&doc)
		if err != nil {
			return Document{}, err
		}

		res, err := coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}, {Key: "updatedAt", Value: seen}}, row)
		if err != nil {
			return Document{}, translateMongo(err)
		}

		if res.MatchedCount == 1 {
			return doc, nil
		}
	}

	return Document{}, ErrConflict
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	coll, err := s.collection(ctx, collection)
	if err != nil {
		return err
	}

	_, err = coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})

	return err
}

// Close implements Store.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
