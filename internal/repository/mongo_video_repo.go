package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/fathima-sithara/clips-service/internal/apperr"
	"github.com/fathima-sithara/clips-service/internal/catalog"
	"github.com/fathima-sithara/clips-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	videosCollection   = "videos"
	countersCollection = "counters"
	videoSeqKey        = "videos"
)

type MongoVideoRepo struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewMongoVideoRepo(db *mongo.Database) *MongoVideoRepo {
	col := db.Collection(videosCollection)
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "uploader", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "views", Value: -1}, {Key: "likes", Value: -1}}},
		{Keys: bson.D{{Key: "seq", Value: 1}}, Options: options.Index().SetName("seq_idx")},
	})
	return &MongoVideoRepo{col: col, counters: db.Collection(countersCollection)}
}

// filterDoc translates a normalized filter. The search term is matched
// literally, so regex metacharacters typed by a user have no special meaning.
func filterDoc(f catalog.Filter) bson.M {
	doc := bson.M{}
	if f.Category != "" {
		doc["category"] = f.Category
	}
	if f.Uploader != "" {
		doc["uploader"] = f.Uploader
	}
	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		doc["$or"] = bson.A{
			bson.M{"title": rx},
			bson.M{"description": rx},
			bson.M{"tags": rx},
		}
	}
	return doc
}

func sortDoc(order catalog.Ordering) bson.D {
	d := bson.D{}
	for _, k := range order {
		dir := 1
		if k.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: string(k.Field), Value: dir})
	}
	return append(d, bson.E{Key: "seq", Value: 1})
}

func (r *MongoVideoRepo) Find(ctx context.Context, f catalog.Filter, order catalog.Ordering, skip, limit int) ([]models.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(sortDoc(order)).SetSkip(int64(max(skip, 0)))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, filterDoc(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Video{}
	for cur.Next(ctx) {
		var v models.Video
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		v.ApplyDefaults()
		out = append(out, v)
	}
	return out, cur.Err()
}

func (r *MongoVideoRepo) Count(ctx context.Context, f catalog.Filter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return r.col.CountDocuments(ctx, filterDoc(f))
}

func (r *MongoVideoRepo) Get(ctx context.Context, id string) (*models.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var v models.Video
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("video")
		}
		return nil, err
	}
	v.ApplyDefaults()
	return &v, nil
}

// Increment is a single findAndModify so concurrent increments never lose updates.
func (r *MongoVideoRepo) Increment(ctx context.Context, id string, c catalog.Counter) (*models.Video, error) {
	switch c {
	case catalog.CounterViews, catalog.CounterLikes, catalog.CounterDownloads:
	default:
		return nil, apperr.Invalid("counter", "unsupported counter "+string(c))
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{string(c): 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var v models.Video
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("video")
		}
		return nil, err
	}
	v.ApplyDefaults()
	return &v, nil
}

func (r *MongoVideoRepo) Insert(ctx context.Context, v *models.Video) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	seq, err := r.nextSeq(ctx)
	if err != nil {
		return err
	}
	if v.ID == "" {
		v.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now
	v.Seq = seq
	v.ApplyDefaults()

	if _, err := r.col.InsertOne(ctx, v); err != nil {
		if isDuplicateKey(err) {
			return apperr.ErrConflict
		}
		return err
	}
	return nil
}

func (r *MongoVideoRepo) nextSeq(ctx context.Context) (int64, error) {
	var doc struct {
		Value int64 `bson:"value"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": videoSeqKey},
		bson.M{"$inc": bson.M{"value": 1}},
		opts,
	).Decode(&doc)
	return doc.Value, err
}

func (r *MongoVideoRepo) Delete(ctx context.Context, id string) (*models.Video, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var v models.Video
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("video")
		}
		return nil, err
	}
	return &v, nil
}

func (r *MongoVideoRepo) Totals(ctx context.Context) (catalog.Totals, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "videos", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "views", Value: bson.D{{Key: "$sum", Value: "$views"}}},
			{Key: "downloads", Value: bson.D{{Key: "$sum", Value: "$downloads"}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return catalog.Totals{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Videos    int64 `bson:"videos"`
		Views     int64 `bson:"views"`
		Downloads int64 `bson:"downloads"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return catalog.Totals{}, err
	}
	if len(rows) == 0 {
		return catalog.Totals{}, nil
	}
	return catalog.Totals{Videos: rows[0].Videos, Views: rows[0].Views, Downloads: rows[0].Downloads}, nil
}

func (r *MongoVideoRepo) CountByCategory(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]int64{}
	for cur.Next(ctx) {
		var row struct {
			Category string `bson:"_id"`
			Count    int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Category] = row.Count
	}
	return out, cur.Err()
}
