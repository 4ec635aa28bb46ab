// Package articles publishes and edits news articles. Every published
// article gets a unique slug and date parts once, and they never change.
package articles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/newsline-radio/backend/internal/articleurl"
	"github.com/anonto42/newsline-radio/backend/internal/models"
	"github.com/anonto42/newsline-radio/backend/internal/repositories"
	"github.com/anonto42/newsline-radio/backend/internal/slug"
	"github.com/rs/zerolog"
)

const (
	DefaultCategory = "General"
	DefaultAuthor   = "Newsline Team"

	// slugAttempts bounds how often resolution is re-run after losing the
	// conditional slug write to a concurrent publish.
	slugAttempts = 3

	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Service implements the article operations on top of an ArticleRepository.
type Service struct {
	repo   repositories.ArticleRepository
	dates  *articleurl.Partitioner
	logger zerolog.Logger
}

// NewService creates a Service. The repository also backs slug resolution.
func NewService(repo repositories.ArticleRepository, dates *articleurl.Partitioner, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		dates:  dates,
		logger: logger.With().Str("component", "articles").Logger(),
	}
}

// lostSlugs reports the candidates that already lost a conditional write as
// taken, even when the store's read path cannot see what holds them.
type lostSlugs struct {
	slug.Store
	lost map[string]bool
}

func (l lostSlugs) SlugExists(ctx context.Context, s string) (bool, error) {
	if l.lost[s] {
		return true, nil
	}
	return l.Store.SlugExists(ctx, s)
}

// newResolver returns a resolver for one publish or slug assignment.
func (s *Service) newResolver(lost map[string]bool) *slug.Resolver {
	return slug.NewResolver(lostSlugs{Store: s.repo, lost: lost}, s.dates.Now, s.logger)
}

// Publish stores a new article with a unique slug derived from its title.
func (s *Service) Publish(ctx context.Context, req models.CreateArticleRequest) (*models.Article, error) {
	base := slug.Generate(req.Title)
	if base == "" {
		return nil, slug.ErrEmptySlug
	}
	published, err := s.dates.Parse(req.PublishedAt)
	if err != nil {
		return nil, err
	}
	publishedAt := strings.TrimSpace(req.PublishedAt)
	if publishedAt == "" {
		publishedAt = published.UTC().Format(time.RFC3339)
	}
	parts := articleurl.PartsOf(published)

	article := &models.Article{
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		Category:    valueOr(req.Category, DefaultCategory),
		Author:      valueOr(req.Author, DefaultAuthor),
		ImageURL:    req.ImageURL,
		PublishedAt: publishedAt,
		Year:        parts.Year,
		Month:       parts.Month,
		Day:         parts.Day,
	}
	if article.Excerpt == "" {
		article.Excerpt = Excerpt(req.Content)
	}

	lost := map[string]bool{}
	resolver := s.newResolver(lost)
	for attempt := 1; ; attempt++ {
		article.Slug = resolver.EnsureUnique(ctx, base)
		err := s.repo.CreateArticle(ctx, article)
		if err == nil {
			break
		}
		if !errors.Is(err, repositories.ErrSlugTaken) || attempt == slugAttempts {
			return nil, fmt.Errorf("publish article: %w", err)
		}
		lost[article.Slug] = true
		s.logger.Warn().Str("slug", article.Slug).Int("attempt", attempt).Msg("slug taken concurrently, resolving again")
	}

	s.logger.Info().Str("article_id", article.ID).Str("slug", article.Slug).Msg("article published")
	return article, nil
}

// Update edits an article. Slug and publication date stay as they are,
// except that an article without a slug receives one now.
func (s *Service) Update(ctx context.Context, id string, req models.UpdateArticleRequest) (*models.Article, error) {
	article, err := s.repo.GetArticleByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		article.Title = strings.TrimSpace(req.Title)
	}
	if req.Content != "" {
		article.Content = req.Content
		if req.Excerpt == "" {
			article.Excerpt = Excerpt(req.Content)
		}
	}
	if req.Excerpt != "" {
		article.Excerpt = req.Excerpt
	}
	if req.Category != "" {
		article.Category = req.Category
	}
	if req.Author != "" {
		article.Author = req.Author
	}
	if req.ImageURL != "" {
		article.ImageURL = req.ImageURL
	}
	article.UpdatedAt = s.dates.Now().UTC().Format(time.RFC3339)

	if err := s.repo.UpdateArticle(ctx, article); err != nil {
		return nil, fmt.Errorf("update article %s: %w", id, err)
	}

	if article.Slug == "" {
		if err := s.assignSlug(ctx, article); err != nil {
			return nil, err
		}
	}
	return article, nil
}

// assignSlug gives a legacy article a slug and date parts. The publication
// date is kept when the article has one, otherwise it becomes now.
func (s *Service) assignSlug(ctx context.Context, article *models.Article) error {
	base := slug.Generate(article.Title)
	if base == "" {
		return slug.ErrEmptySlug
	}
	published, err := s.dates.Parse(article.PublishedAt)
	if err != nil {
		return err
	}
	if article.PublishedAt == "" {
		article.PublishedAt = published.UTC().Format(time.RFC3339)
	}
	parts := articleurl.PartsOf(published)
	article.Year, article.Month, article.Day = parts.Year, parts.Month, parts.Day

	lost := map[string]bool{}
	resolver := s.newResolver(lost)
	for attempt := 1; ; attempt++ {
		article.Slug = resolver.EnsureUnique(ctx, base)
		err := s.repo.AssignSlug(ctx, article)
		if err == nil {
			s.logger.Info().Str("article_id", article.ID).Str("slug", article.Slug).Msg("slug assigned to legacy article")
			return nil
		}
		if !errors.Is(err, repositories.ErrSlugTaken) {
			return fmt.Errorf("assign slug to %s: %w", article.ID, err)
		}
		// A concurrent edit may have assigned one already; keep it.
		current, getErr := s.repo.GetArticleByID(ctx, article.ID)
		if getErr == nil && current.Slug != "" {
			*article = *current
			return nil
		}
		if attempt == slugAttempts {
			return fmt.Errorf("assign slug to %s: %w", article.ID, err)
		}
		lost[article.Slug] = true
	}
}

// Delete removes an article and frees its slug.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteArticle(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("article_id", id).Msg("article deleted")
	return nil
}

// Get returns an article by store id.
func (s *Service) Get(ctx context.Context, id string) (*models.Article, error) {
	return s.repo.GetArticleByID(ctx, id)
}

// GetBySlug returns the article holding slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return s.repo.GetArticleBySlug(ctx, slug)
}

// List returns the newest articles with their public URLs.
func (s *Service) List(ctx context.Context, limit int) ([]models.ArticleSummary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	articles, err := s.repo.ListArticles(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	out := make([]models.ArticleSummary, 0, len(articles))
	for i := range articles {
		a := &articles[i]
		out = append(out, models.ArticleSummary{
			ID:          a.ID,
			Title:       a.Title,
			Excerpt:     a.Excerpt,
			Category:    a.Category,
			Author:      a.Author,
			ImageURL:    a.ImageURL,
			PublishedAt: a.PublishedAt,
			URL:         s.URL(a),
		})
	}
	return out, nil
}

// URL returns the public path of an article: canonical when it has a slug
// and a usable publication date, the legacy id path otherwise.
func (s *Service) URL(a *models.Article) string {
	if a.HasCanonicalURL() {
		if a.Year != "" && a.Month != "" && a.Day != "" {
			return articleurl.Path(articleurl.DateParts{Year: a.Year, Month: a.Month, Day: a.Day}, a.Slug)
		}
		if u, err := s.dates.BuildURL(a.Slug, a.PublishedAt); err == nil {
			return u
		}
	}
	return articleurl.LegacyPath(a.ID)
}

func valueOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
