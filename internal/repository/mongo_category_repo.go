package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fathima-sithara/clips-service/internal/apperr"
	"github.com/fathima-sithara/clips-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoCategoryRepo struct {
	col *mongo.Collection
}

func NewMongoCategoryRepo(db *mongo.Database) *MongoCategoryRepo {
	col := db.Collection("categories")
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return &MongoCategoryRepo{col: col}
}

func (r *MongoCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	return r.find(ctx, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *MongoCategoryRepo) Top(ctx context.Context, n int) ([]models.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "videoCount", Value: -1}, {Key: "name", Value: 1}})
	if n > 0 {
		opts.SetLimit(int64(n))
	}
	return r.find(ctx, opts)
}

func (r *MongoCategoryRepo) find(ctx context.Context, opts *options.FindOptions) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Category{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoCategoryRepo) Get(ctx context.Context, slug string) (*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var c models.Category
	if err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("category")
		}
		return nil, err
	}
	return &c, nil
}

// Upsert writes the descriptive fields; an existing videoCount is left alone.
func (r *MongoCategoryRepo) Upsert(ctx context.Context, c *models.Category) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":      c.Name,
			"icon":      c.Icon,
			"color":     c.Color,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"slug":       c.Slug,
			"videoCount": c.VideoCount,
			"createdAt":  now,
		},
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"slug": c.Slug}, update, options.Update().SetUpsert(true))
	if isDuplicateKey(err) {
		return apperr.ErrConflict
	}
	return err
}

// IncrementVideoCount adds delta and never lets the count drop below zero.
func (r *MongoCategoryRepo) IncrementVideoCount(ctx context.Context, slug string, delta int64) error {
	return r.update(ctx, slug, videoCountUpdate(delta, time.Now().UTC()))
}

func videoCountUpdate(delta int64, now time.Time) mongo.Pipeline {
	sum := bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$videoCount", 0}}, delta}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "videoCount", Value: bson.M{"$max": bson.A{0, sum}}},
			{Key: "updatedAt", Value: now},
		}}},
	}
}

func (r *MongoCategoryRepo) SetVideoCount(ctx context.Context, slug string, n int64) error {
	return r.update(ctx, slug, bson.M{
		"$set": bson.M{"videoCount": n, "updatedAt": time.Now().UTC()},
	})
}

func (r *MongoCategoryRepo) update(ctx context.Context, slug string, update any) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"slug": slug}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("category")
	}
	return nil
}
