package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const countersCollection = "counters"

// MongoStore keeps one collection per entity. Integer ids come from a
// counters collection so rows look the same as on the SQL backends.
type MongoStore struct {
	db *mongo.Database
}

func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (m *MongoStore) CreateIndexes(ctx context.Context) error {
	for entity := range knownEntities {
		indexes := []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		}
		switch entity {
		case EntityProducts:
			indexes = append(indexes, mongo.IndexModel{
				Keys:    bson.D{{Key: "code", Value: 1}},
				Options: options.Index().SetUnique(true),
			})
		case EntitySaleItems, EntityCashFlow:
			indexes = append(indexes, mongo.IndexModel{Keys: bson.D{{Key: "sale_id", Value: 1}}})
		case EntityOutboxEvents:
			indexes = append(indexes, mongo.IndexModel{
				Keys: bson.D{{Key: "processed", Value: 1}, {Key: "created_at", Value: 1}},
			})
		}

		if _, err := m.db.Collection(entity).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", entity, err)
		}
	}
	return nil
}

// nextIDs reserves n consecutive ids for entity and returns the first.
func (m *MongoStore) nextIDs(ctx context.Context, entity string, n int) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := m.db.Collection(countersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": entity},
		bson.M{"$inc": bson.M{"seq": int64(n)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("failed to reserve ids: %w", err)
	}
	return counter.Seq - int64(n) + 1, nil
}

func (m *MongoStore) Insert(ctx context.Context, entity string, rows ...Row) ([]Row, error) {
	if err := checkEntity(entity); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInsert
	}
	for _, r := range rows {
		if err := checkColumns(r); err != nil {
			return nil, err
		}
	}

	if entity == EntityStockMovements {
		if err := m.moveStock(ctx, rows); err != nil {
			return nil, err
		}
	}

	first, err := m.nextIDs(ctx, entity, len(rows))
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := make([]Row, 0, len(rows))
	docs := make([]any, 0, len(rows))
	for i, r := range rows {
		row := cloneRow(r)
		row["id"] = first + int64(i)
		if _, ok := row["created_at"]; !ok && entity != EntityProducts {
			row["created_at"] = now
		}
		created = append(created, row)
		docs = append(docs, bson.M(cloneRow(row)))
	}

	if _, err := m.db.Collection(entity).InsertMany(ctx, docs); err != nil {
		// An ordered InsertMany keeps the documents written before the failing one.
		m.discardBatch(ctx, entity, first, len(rows))
		if entity == EntityStockMovements {
			m.revertStock(ctx, rows)
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, fmt.Errorf("insert into %s: %w", entity, err)
	}
	return created, nil
}

// discardBatch removes whatever part of a failed batch was written. The ids
// were reserved for this batch only.
func (m *MongoStore) discardBatch(ctx context.Context, entity string, first int64, n int) {
	ctx = context.WithoutCancel(ctx)
	filter := bson.M{"id": bson.M{"$gte": first, "$lt": first + int64(n)}}
	_, _ = m.db.Collection(entity).DeleteMany(ctx, filter)
}

// moveStock applies each movement with a guarded $inc. A rejected movement
// reverts the ones already applied in the batch.
func (m *MongoStore) moveStock(ctx context.Context, rows []Row) error {
	products := m.db.Collection(EntityProducts)
	for i, r := range rows {
		qty, _ := toInt64(r["quantity"])
		filter := bson.M{"id": r["product_id"]}
		delta := qty
		if isOut(r) {
			filter["stock"] = bson.M{"$gte": qty}
			delta = -qty
		}

		res, err := products.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"stock": delta}})
		if err == nil && res.MatchedCount == 0 {
			if isOut(r) {
				err = insufficientStock(r["product_id"])
			} else {
				err = fmt.Errorf("%w: product %v not found", ErrConstraint, r["product_id"])
			}
		}
		if err != nil {
			m.revertStock(ctx, rows[:i])
			if errors.Is(err, ErrConstraint) {
				return err
			}
			return fmt.Errorf("failed to move stock: %w", err)
		}
	}
	return nil
}

func (m *MongoStore) revertStock(ctx context.Context, rows []Row) {
	products := m.db.Collection(EntityProducts)
	for _, r := range rows {
		qty, _ := toInt64(r["quantity"])
		if !isOut(r) {
			qty = -qty
		}
		_, _ = products.UpdateOne(ctx, bson.M{"id": r["product_id"]}, bson.M{"$inc": bson.M{"stock": qty}})
	}
}

func (m *MongoStore) Select(ctx context.Context, entity string, filter Filter, orders ...Order) ([]Row, error) {
	if err := checkEntity(entity); err != nil {
		return nil, err
	}
	if err := checkColumns(filter); err != nil {
		return nil, err
	}
	if err := checkOrders(orders); err != nil {
		return nil, err
	}

	opts := options.Find()
	if len(orders) > 0 {
		sortSpec := bson.D{}
		for _, o := range orders {
			dir := 1
			if o.Desc {
				dir = -1
			}
			sortSpec = append(sortSpec, bson.E{Key: o.Column, Value: dir})
		}
		opts.SetSort(sortSpec)
	}

	cursor, err := m.db.Collection(entity).Find(ctx, bson.M(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", entity, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", entity, err)
	}

	result := make([]Row, 0, len(docs))
	for _, doc := range docs {
		delete(doc, "_id")
		row := make(Row, len(doc))
		for k, v := range doc {
			row[k] = fromBSON(v)
		}
		result = append(result, row)
	}
	return result, nil
}

func fromBSON(v any) any {
	switch x := v.(type) {
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.Decimal128:
		return x.String()
	default:
		return normalize(v)
	}
}

func (m *MongoStore) Update(ctx context.Context, entity string, filter Filter, patch Row) (int64, error) {
	if err := checkEntity(entity); err != nil {
		return 0, err
	}
	if err := checkColumns(filter); err != nil {
		return 0, err
	}
	if err := checkColumns(patch); err != nil {
		return 0, err
	}

	set := bson.M{}
	for k, v := range patch {
		if k != "id" {
			set[k] = v
		}
	}
	if len(set) == 0 {
		return 0, nil
	}

	res, err := m.db.Collection(entity).UpdateMany(ctx, bson.M(filter), bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", entity, err)
	}
	return res.MatchedCount, nil
}

func (m *MongoStore) Delete(ctx context.Context, entity string, filter Filter) (int64, error) {
	if err := checkEntity(entity); err != nil {
		return 0, err
	}
	if err := checkColumns(filter); err != nil {
		return 0, err
	}

	res, err := m.db.Collection(entity).DeleteMany(ctx, bson.M(filter))
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", entity, err)
	}
	return res.DeletedCount, nil
}

func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.db.Client().Disconnect(ctx)
}
