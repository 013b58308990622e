package store

import (
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/quillhq/quill/models"
)

// PageSize is the fixed number of posts per listing page.
const PageSize = 10

// Page is one page of a reverse-chronological post listing.
type Page struct {
	Items      []models.Post `json:"items"`
	Number     int           `json:"number"`
	TotalPages int           `json:"total_pages"`
	Total      int64         `json:"total"`
}

// resolvePage maps the raw 1-indexed page parameter onto a valid page number.
// An absent parameter means the first page; non-numeric or out-of-range input
// yields the last available page rather than an error.
func resolvePage(raw string, totalPages int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > totalPages {
		return totalPages
	}
	return n
}

// paginatePosts runs the count + offset/limit pair for a post query. The
// query must already carry its where clauses; ordering and preloads are
// applied here so every listing looks the same.
func (s *Store) paginatePosts(query *gorm.DB, pageParam string) (*Page, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Model(&models.Post{}).Count(&total).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	page := resolvePage(pageParam, totalPages)

	var posts []models.Post
	err := query.
		Preload("Author").
		Preload("Group").
		Order("pub_date DESC, id DESC").
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return &Page{
		Items:      posts,
		Number:     page,
		TotalPages: totalPages,
		Total:      total,
	}, nil
}
