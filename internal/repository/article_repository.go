package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"portfolio/internal/model"
)

// ArticleFilter narrows article listings. Zero values mean "no filter".
type ArticleFilter struct {
	Status   model.ArticleStatus
	Category model.ArticleCategory
	Search   string
	Offset   int
	Limit    int
}

// ArticleRepository defines article persistence operations.
type ArticleRepository interface {
	Create(ctx context.Context, article *model.Article) error
	Save(ctx context.Context, article *model.Article) error
	FindByID(ctx context.Context, id uint) (*model.Article, error)
	FindByName(ctx context.Context, name string) (*model.Article, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	List(ctx context.Context, filter ArticleFilter) ([]model.Article, int64, error)
	Delete(ctx context.Context, id uint) error
	IncrementViewCount(ctx context.Context, id uint) error
	Stats(ctx context.Context) (*model.ArticleStats, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository builds a GORM-backed repository.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) Create(ctx context.Context, article *model.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

func (r *articleRepository) Save(ctx context.Context, article *model.Article) error {
	return r.db.WithContext(ctx).Save(article).Error
}

func (r *articleRepository) FindByID(ctx context.Context, id uint) (*model.Article, error) {
	var article model.Article
	if err := r.db.WithContext(ctx).First(&article, id).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) FindByName(ctx context.Context, name string) (*model.Article, error) {
	var article model.Article
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&article).Error; err != nil {
		return nil, err
	}
	return &article, nil
}

// ExistsByName reports whether another article already uses the slug.
// Check-then-insert; the unique index on name is the backstop for the race.
func (r *articleRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Article{}).Where("name = ?", name)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *articleRepository) List(ctx context.Context, filter ArticleFilter) ([]model.Article, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Article{})

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(category) LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []model.Article
	if err := q.Order("created_at DESC").
		Offset(filter.Offset).Limit(filter.Limit).
		Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Article{}, id).Error
}

// IncrementViewCount bumps the view counter in a single statement.
func (r *articleRepository) IncrementViewCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&model.Article{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (r *articleRepository) Stats(ctx context.Context) (*model.ArticleStats, error) {
	stats := &model.ArticleStats{
		Categories: []model.CategoryCount{},
		Popular:    []model.ArticleSummary{},
	}

	type statusCount struct {
		Status model.ArticleStatus
		Count  int64
	}
	var byStatus []statusCount
	if err := r.db.WithContext(ctx).Model(&model.Article{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, sc := range byStatus {
		stats.Total += sc.Count
		switch sc.Status {
		case model.StatusPublished:
			stats.Published = sc.Count
		case model.StatusDraft:
			stats.Draft = sc.Count
		case model.StatusArchived:
			stats.Archived = sc.Count
		}
	}

	if err := r.db.WithContext(ctx).Model(&model.Article{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Scan(&stats.Categories).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&model.Article{}).
		Select("id, title, name, view_count").
		Where("status = ?", model.StatusPublished).
		Order("view_count DESC").
		Limit(5).
		Scan(&stats.Popular).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
