package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/quillhq/quill/models"
	"github.com/quillhq/quill/utils"
)

// ListPosts returns one page of the index listing, newest first. The result
// is served through the page cache: a page rendered up to IndexCacheTTL ago
// may be returned even if posts were written since. Writers do not evict.
func (s *Store) ListPosts(pageParam string) (*Page, error) {
	key := indexCacheKey(pageParam)
	if b, ok := s.cache.Get(key); ok {
		var cached Page
		if err := json.Unmarshal(b, &cached); err == nil {
			return &cached, nil
		}
	}

	page, err := s.paginatePosts(s.db.Session(&gorm.Session{}), pageParam)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(page); err == nil {
		s.cache.Set(key, b, utils.IndexCacheTTL)
	}
	return page, nil
}

func indexCacheKey(pageParam string) string {
	if pageParam == "" {
		pageParam = "1"
	}
	return fmt.Sprintf("posts:index:page=%s", pageParam)
}

// ListGroupPosts returns the group identified by slug and one page of its posts.
func (s *Store) ListGroupPosts(slug, pageParam string) (*models.Group, *Page, error) {
	var group models.Group
	if err := s.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	page, err := s.paginatePosts(s.db.Where("group_id = ?", group.ID), pageParam)
	if err != nil {
		return nil, nil, err
	}
	return &group, page, nil
}

// ListAuthorPosts returns the author identified by username and one page of their posts.
func (s *Store) ListAuthorPosts(username, pageParam string) (*models.User, *Page, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		return nil, nil, err
	}

	page, err := s.paginatePosts(s.db.Where("author_id = ?", user.ID), pageParam)
	if err != nil {
		return nil, nil, err
	}
	return user, page, nil
}

// ListFeed returns one page of posts written by the authors the user follows.
func (s *Store) ListFeed(userID uint, pageParam string) (*Page, error) {
	followed := s.db.Model(&models.Follow{}).
		Select("author_id").
		Where("user_id = ?", userID)
	return s.paginatePosts(s.db.Where("author_id IN (?)", followed), pageParam)
}

// GetPost loads a single post together with its comments (oldest first).
func (s *Store) GetPost(postID uint) (*models.Post, error) {
	var post models.Post
	err := s.db.
		Preload("Author").
		Preload("Group").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("pub_date ASC, id ASC").Preload("Author")
		}).
		First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetUserByUsername resolves a username to its user record.
func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID resolves a user ID to its user record.
func (s *Store) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListGroups returns all groups ordered by title.
func (s *Store) ListGroups() ([]models.Group, error) {
	var groups []models.Group
	if err := s.db.Order("title ASC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// IsFollowing reports whether user follows author.
func (s *Store) IsFollowing(userID, authorID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// FollowCounts returns how many accounts follow the user and how many the user follows.
func (s *Store) FollowCounts(userID uint) (followers, following int64, err error) {
	if err = s.db.Model(&models.Follow{}).Where("author_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	if err = s.db.Model(&models.Follow{}).Where("user_id = ?", userID).Count(&following).Error; err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
