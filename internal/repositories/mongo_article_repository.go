package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/newsline-radio/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoArticleRepository implements ArticleRepository for MongoDB
type MongoArticleRepository struct {
	collection *mongo.Collection
}

// NewMongoArticleRepository creates a new MongoArticleRepository
func NewMongoArticleRepository(db *mongo.Database) *MongoArticleRepository {
	return &MongoArticleRepository{collection: db.Collection("articles")}
}

// EnsureIndexes creates the unique slug index. Articles without a slug are
// left out of the index so legacy documents never collide.
func (r *MongoArticleRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().
				SetName("slug_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"slug": bson.M{"$type": "string"}}),
		},
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("timestamp_desc"),
		},
	})
	if err != nil {
		return fmt.Errorf("create article indexes: %w", err)
	}
	return nil
}

// CreateArticle inserts a new article in MongoDB
func (r *MongoArticleRepository) CreateArticle(ctx context.Context, article *models.Article) error {
	article.ID = primitive.NewObjectID().Hex()
	article.Timestamp = time.Now().UTC()
	if _, err := r.collection.InsertOne(ctx, article); err != nil {
		article.ID = ""
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

// GetArticleByID retrieves an article by ID from MongoDB
func (r *MongoArticleRepository) GetArticleByID(ctx context.Context, id string) (*models.Article, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetArticleBySlug retrieves an article by slug from MongoDB
func (r *MongoArticleRepository) GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *MongoArticleRepository) findOne(ctx context.Context, filter bson.M) (*models.Article, error) {
	var article models.Article
	err := r.collection.FindOne(ctx, filter).Decode(&article)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

// SlugExists reports whether any article holds slug
func (r *MongoArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListArticles retrieves the newest articles from MongoDB
func (r *MongoArticleRepository) ListArticles(ctx context.Context, limit int) ([]models.Article, error) {
	findOptions := options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	articles := []models.Article{}
	if err = cursor.All(ctx, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// UpdateArticle updates the editable fields of an article in MongoDB
func (r *MongoArticleRepository) UpdateArticle(ctx context.Context, article *models.Article) error {
	update := bson.M{
		"$set": bson.M{
			"title":      article.Title,
			"content":    article.Content,
			"excerpt":    article.Excerpt,
			"category":   article.Category,
			"author":     article.Author,
			"image_url":  article.ImageURL,
			"updated_at": article.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": article.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AssignSlug sets the slug and date fields of an article that has none yet
func (r *MongoArticleRepository) AssignSlug(ctx context.Context, article *models.Article) error {
	filter := bson.M{"_id": article.ID, "slug": bson.M{"$exists": false}}
	update := bson.M{
		"$set": bson.M{
			"slug":         article.Slug,
			"published_at": article.PublishedAt,
			"year":         article.Year,
			"month":        article.Month,
			"day":          article.Day,
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlugTaken
		}
		return err
	}
	if res.MatchedCount == 0 {
		n, err := r.collection.CountDocuments(ctx, bson.M{"_id": article.ID})
		if err != nil {
			return err
		}
		if n > 0 {
			// Another edit assigned a slug first.
			return ErrSlugTaken
		}
		return ErrNotFound
	}
	return nil
}

// DeleteArticle deletes an article by ID from MongoDB
func (r *MongoArticleRepository) DeleteArticle(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
