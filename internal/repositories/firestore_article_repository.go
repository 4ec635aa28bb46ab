package repositories

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/anonto42/newsline-radio/backend/internal/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	articlesCollection = "news"
	slugsCollection    = "slugs"
)

// slugIndexEntry is the document kept in the slugs collection for every
// assigned slug. Creating it fails if the slug is already held.
type slugIndexEntry struct {
	ArticleID string `firestore:"articleId"`
}

// FirestoreArticleRepository implements ArticleRepository for Firestore
type FirestoreArticleRepository struct {
	client *firestore.Client
}

// NewFirestoreArticleRepository creates a new FirestoreArticleRepository
func NewFirestoreArticleRepository(client *firestore.Client) *FirestoreArticleRepository {
	return &FirestoreArticleRepository{client: client}
}

func (r *FirestoreArticleRepository) articles() *firestore.CollectionRef {
	return r.client.Collection(articlesCollection)
}

func (r *FirestoreArticleRepository) slugs() *firestore.CollectionRef {
	return r.client.Collection(slugsCollection)
}

// CreateArticle writes the article and its slug index entry in one transaction
func (r *FirestoreArticleRepository) CreateArticle(ctx context.Context, article *models.Article) error {
	ref := r.articles().NewDoc()
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := r.checkSlugFree(tx, article.Slug); err != nil {
			return err
		}
		if err := tx.Create(r.slugs().Doc(article.Slug), slugIndexEntry{ArticleID: ref.ID}); err != nil {
			return err
		}
		return tx.Create(ref, article)
	})
	if err != nil {
		return mapSlugError(err)
	}
	article.ID = ref.ID
	return nil
}

// checkSlugFree catches slugs held by articles written before the index existed
func (r *FirestoreArticleRepository) checkSlugFree(tx *firestore.Transaction, slug string) error {
	docs, err := tx.Documents(r.articles().Where("slug", "==", slug).Limit(1)).GetAll()
	if err != nil {
		return err
	}
	if len(docs) > 0 {
		return ErrSlugTaken
	}
	return nil
}

// GetArticleByID retrieves an article by document ID
func (r *FirestoreArticleRepository) GetArticleByID(ctx context.Context, id string) (*models.Article, error) {
	if !validDocID(id) {
		return nil, ErrNotFound
	}
	snap, err := r.articles().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeArticle(snap)
}

// GetArticleBySlug retrieves the article holding slug
func (r *FirestoreArticleRepository) GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	docs, err := r.articles().Where("slug", "==", slug).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return decodeArticle(docs[0])
}

// SlugExists reports whether any article or slug index entry holds slug.
// An index entry left behind by a delete outside this service still
// blocks the conditional write, so it counts as taken.
func (r *FirestoreArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	if validDocID(slug) {
		_, err := r.slugs().Doc(slug).Get(ctx)
		if err == nil {
			return true, nil
		}
		if status.Code(err) != codes.NotFound {
			return false, err
		}
	}
	docs, err := r.articles().Where("slug", "==", slug).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return false, err
	}
	return len(docs) > 0, nil
}

// ListArticles retrieves the newest articles
func (r *FirestoreArticleRepository) ListArticles(ctx context.Context, limit int) ([]models.Article, error) {
	docs, err := r.articles().OrderBy("timestamp", firestore.Desc).Limit(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	articles := make([]models.Article, 0, len(docs))
	for _, doc := range docs {
		a, err := decodeArticle(doc)
		if err != nil {
			return nil, err
		}
		articles = append(articles, *a)
	}
	return articles, nil
}

// UpdateArticle updates the editable fields of an article
func (r *FirestoreArticleRepository) UpdateArticle(ctx context.Context, article *models.Article) error {
	_, err := r.articles().Doc(article.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: article.Title},
		{Path: "content", Value: article.Content},
		{Path: "excerpt", Value: article.Excerpt},
		{Path: "category", Value: article.Category},
		{Path: "author", Value: article.Author},
		{Path: "imageUrl", Value: article.ImageURL},
		{Path: "updatedAt", Value: article.UpdatedAt},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// AssignSlug gives a legacy article its slug and date fields
func (r *FirestoreArticleRepository) AssignSlug(ctx context.Context, article *models.Article) error {
	ref := r.articles().Doc(article.ID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		if existing, _ := snap.DataAt("slug"); existing != nil && existing != "" {
			return ErrSlugTaken
		}
		if err := r.checkSlugFree(tx, article.Slug); err != nil {
			return err
		}
		if err := tx.Create(r.slugs().Doc(article.Slug), slugIndexEntry{ArticleID: article.ID}); err != nil {
			return err
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "slug", Value: article.Slug},
			{Path: "publishedAt", Value: article.PublishedAt},
			{Path: "year", Value: article.Year},
			{Path: "month", Value: article.Month},
			{Path: "day", Value: article.Day},
		})
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return mapSlugError(err)
}

// DeleteArticle deletes an article and releases its slug
func (r *FirestoreArticleRepository) DeleteArticle(ctx context.Context, id string) error {
	if !validDocID(id) {
		return ErrNotFound
	}
	ref := r.articles().Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var article models.Article
		if err := snap.DataTo(&article); err != nil {
			return err
		}
		var release *firestore.DocumentRef
		if article.Slug != "" {
			slugRef := r.slugs().Doc(article.Slug)
			entry, err := tx.Get(slugRef)
			if err != nil && status.Code(err) != codes.NotFound {
				return err
			}
			if err == nil {
				if owner, _ := entry.DataAt("articleId"); owner == id {
					release = slugRef
				}
			}
		}
		if release != nil {
			if err := tx.Delete(release); err != nil {
				return err
			}
		}
		return tx.Delete(ref)
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func decodeArticle(snap *firestore.DocumentSnapshot) (*models.Article, error) {
	var article models.Article
	if err := snap.DataTo(&article); err != nil {
		return nil, err
	}
	article.ID = snap.Ref.ID
	return &article, nil
}

// mapSlugError turns a lost slug index create into ErrSlugTaken
func mapSlugError(err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.AlreadyExists {
		return ErrSlugTaken
	}
	return err
}
