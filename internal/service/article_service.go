package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"portfolio/internal/cache"
	apperrors "portfolio/internal/errors"
	"portfolio/internal/model"
	"portfolio/internal/repository"
)

const (
	statsCacheKey = "articles:stats"
	statsCacheTTL = time.Minute

	maxTitleLength   = 200
	maxExcerptLength = 500
	excerptLength    = 150
	wordsPerMinute   = 200

	defaultPage  = 1
	defaultLimit = 10
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// CreateArticleInput carries the fields of an article creation request.
type CreateArticleInput struct {
	Title    string
	Name     string
	Content  []string
	Category string
	Status   string
	Tags     []string
	Excerpt  string
}

// ArticlePatch is a partial article update. Nil fields are left untouched,
// so a field can only be changed by sending it explicitly.
type ArticlePatch struct {
	Title    *string
	Name     *string
	Content  []string
	Category *string
	Status   *string
	Tags     []string
	Excerpt  *string
}

// ListOptions narrows and paginates article listings.
type ListOptions struct {
	Status   string
	Category string
	Search   string
	Page     int
	Limit    int
}

// ArticleList is a page of articles with pagination counters.
type ArticleList struct {
	Items       []model.Article
	Total       int64
	Pages       int
	CurrentPage int
}

// ArticleService implements the article lifecycle: visibility rules, derived
// fields, slug uniqueness, and ownership checks.
type ArticleService interface {
	List(ctx context.Context, opts ListOptions, caller *model.User) (*ArticleList, error)
	GetByName(ctx context.Context, name string, caller *model.User) (*model.Article, error)
	Create(ctx context.Context, input CreateArticleInput, caller *model.User) (*model.Article, error)
	Update(ctx context.Context, id uint, patch ArticlePatch, caller *model.User) (*model.Article, error)
	Delete(ctx context.Context, id uint, caller *model.User) error
	Stats(ctx context.Context) (*model.ArticleStats, error)
}

type articleService struct {
	repo  repository.ArticleRepository
	cache *cache.Client
}

// NewArticleService creates a new article service.
func NewArticleService(repo repository.ArticleRepository, cache *cache.Client) ArticleService {
	return &articleService{repo: repo, cache: cache}
}

// List returns a page of articles. Callers without editor or admin role only
// ever see published articles, regardless of the requested status filter.
func (s *articleService) List(ctx context.Context, opts ListOptions, caller *model.User) (*ArticleList, error) {
	page := opts.Page
	if page < 1 {
		page = defaultPage
	}
	limit := opts.Limit
	if limit < 1 {
		limit = defaultLimit
	}

	status := model.ArticleStatus(opts.Status)
	privileged := caller != nil && caller.Role.CanPublish()
	if !privileged {
		status = model.StatusPublished
	}

	filter := repository.ArticleFilter{
		Status:   status,
		Category: model.ArticleCategory(opts.Category),
		Search:   opts.Search,
		Offset:   (page - 1) * limit,
		Limit:    limit,
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	pages := int((total + int64(limit) - 1) / int64(limit))
	return &ArticleList{
		Items:       items,
		Total:       total,
		Pages:       pages,
		CurrentPage: page,
	}, nil
}

// GetByName returns the article with the given slug and increments its view
// counter. Reads are deliberately non-idempotent: N successful reads bump the
// counter by exactly N. Non-published articles require an editor or admin
// caller.
func (s *articleService) GetByName(ctx context.Context, name string, caller *model.User) (*model.Article, error) {
	article, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}

	if article.Status != model.StatusPublished {
		if caller == nil || !caller.Role.CanPublish() {
			return nil, apperrors.ErrArticleNotAvailable
		}
	}

	if err := s.repo.IncrementViewCount(ctx, article.ID); err != nil {
		return nil, fmt.Errorf("increment view count: %w", err)
	}
	article.ViewCount++

	return article, nil
}

// Create validates input, derives excerpt and read time, and persists a new
// article owned by the caller.
func (s *articleService) Create(ctx context.Context, input CreateArticleInput, caller *model.User) (*model.Article, error) {
	if input.Title == "" || input.Name == "" || len(input.Content) == 0 {
		return nil, apperrors.NewValidation("Please provide title, name, and content")
	}

	title := strings.TrimSpace(input.Title)
	if len(title) > maxTitleLength {
		return nil, apperrors.NewValidation("Title cannot exceed 200 characters")
	}

	name := strings.ToLower(strings.TrimSpace(input.Name))
	if !slugPattern.MatchString(name) {
		return nil, apperrors.NewValidation("Article name can only contain lowercase letters, numbers, and hyphens")
	}

	content := normalizeContent(input.Content)
	if len(content) == 0 {
		return nil, apperrors.NewValidation("Article content cannot be empty")
	}

	category := model.CategoryGeneral
	if input.Category != "" {
		category = model.ArticleCategory(input.Category)
		if !model.ValidCategory(category) {
			return nil, apperrors.NewValidation("Invalid article category")
		}
	}

	status := model.StatusDraft
	if input.Status != "" {
		status = model.ArticleStatus(input.Status)
		if !model.ValidStatus(status) {
			return nil, apperrors.NewValidation("Invalid article status")
		}
	}

	excerpt := strings.TrimSpace(input.Excerpt)
	if len(excerpt) > maxExcerptLength {
		return nil, apperrors.NewValidation("Excerpt cannot exceed 500 characters")
	}
	if excerpt == "" {
		excerpt = deriveExcerpt(content[0])
	}

	exists, err := s.repo.ExistsByName(ctx, name, 0)
	if err != nil {
		return nil, fmt.Errorf("check article name: %w", err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateSlug
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	article := &model.Article{
		Title:      title,
		Name:       name,
		Content:    content,
		Category:   category,
		Status:     status,
		AuthorID:   caller.ID,
		AuthorName: caller.FullName,
		Tags:       tags,
		Excerpt:    excerpt,
		ReadTime:   estimateReadTime(content),
	}
	if err := s.repo.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}

	s.invalidateStats(ctx)
	return article, nil
}

// Update applies a partial update. Only the author, an editor, or an admin may
// update; excerpt and read time are recomputed only when content changes.
func (s *articleService) Update(ctx context.Context, id uint, patch ArticlePatch, caller *model.User) (*model.Article, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}

	if article.AuthorID != caller.ID && !caller.Role.CanPublish() {
		return nil, apperrors.ErrNotArticleOwner
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperrors.NewValidation("Title cannot be empty")
		}
		if len(title) > maxTitleLength {
			return nil, apperrors.NewValidation("Title cannot exceed 200 characters")
		}
		article.Title = title
	}

	if patch.Name != nil {
		name := strings.ToLower(strings.TrimSpace(*patch.Name))
		if !slugPattern.MatchString(name) {
			return nil, apperrors.NewValidation("Article name can only contain lowercase letters, numbers, and hyphens")
		}
		if name != article.Name {
			exists, err := s.repo.ExistsByName(ctx, name, article.ID)
			if err != nil {
				return nil, fmt.Errorf("check article name: %w", err)
			}
			if exists {
				return nil, apperrors.ErrDuplicateSlug
			}
			article.Name = name
		}
	}

	if patch.Content != nil {
		content := normalizeContent(patch.Content)
		if len(content) == 0 {
			return nil, apperrors.NewValidation("Article content cannot be empty")
		}
		article.Content = content
		article.Excerpt = deriveExcerpt(content[0])
		article.ReadTime = estimateReadTime(content)
	}

	if patch.Category != nil {
		category := model.ArticleCategory(*patch.Category)
		if !model.ValidCategory(category) {
			return nil, apperrors.NewValidation("Invalid article category")
		}
		article.Category = category
	}

	if patch.Status != nil {
		status := model.ArticleStatus(*patch.Status)
		if !model.ValidStatus(status) {
			return nil, apperrors.NewValidation("Invalid article status")
		}
		article.Status = status
	}

	if patch.Tags != nil {
		article.Tags = patch.Tags
	}

	if patch.Excerpt != nil {
		excerpt := strings.TrimSpace(*patch.Excerpt)
		if len(excerpt) > maxExcerptLength {
			return nil, apperrors.NewValidation("Excerpt cannot exceed 500 characters")
		}
		if excerpt != "" {
			article.Excerpt = excerpt
		}
	}

	if err := s.repo.Save(ctx, article); err != nil {
		return nil, fmt.Errorf("save article: %w", err)
	}

	s.invalidateStats(ctx)
	return article, nil
}

// Delete removes an article. Only the author or an admin may delete; editors
// cannot delete other people's articles.
func (s *articleService) Delete(ctx context.Context, id uint, caller *model.User) error {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperrors.ErrArticleNotFound
		}
		return fmt.Errorf("find article: %w", err)
	}

	if article.AuthorID != caller.ID && caller.Role != model.RoleAdmin {
		return apperrors.ErrCannotDelete
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}

	s.invalidateStats(ctx)
	return nil
}

// Stats returns aggregate article counters, cached briefly in Redis.
func (s *articleService) Stats(ctx context.Context) (*model.ArticleStats, error) {
	if data, _ := s.cache.Get(ctx, statsCacheKey); data != nil {
		var cached model.ArticleStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("article stats: %w", err)
	}

	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, statsCacheKey, payload, statsCacheTTL)
	}
	return stats, nil
}

func (s *articleService) invalidateStats(ctx context.Context) {
	_ = s.cache.Delete(ctx, statsCacheKey)
}

// normalizeContent trims paragraphs and drops empty ones.
func normalizeContent(content []string) model.StringList {
	out := make(model.StringList, 0, len(content))
	for _, paragraph := range content {
		if trimmed := strings.TrimSpace(paragraph); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// deriveExcerpt takes the first 150 characters of the first paragraph.
func deriveExcerpt(paragraph string) string {
	runes := []rune(paragraph)
	if len(runes) > excerptLength {
		runes = runes[:excerptLength]
	}
	return string(runes) + "..."
}

// estimateReadTime assumes 200 words per minute, never under one minute.
func estimateReadTime(content model.StringList) int {
	words := len(strings.Fields(strings.Join(content, " ")))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
