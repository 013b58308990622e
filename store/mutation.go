package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/quillhq/quill/models"
	"github.com/quillhq/quill/utils"
)

// CreatePost validates and stores a new post for the given author. Group and
// image are optional; when a group is given it must exist. The index cache is
// not evicted; the new post becomes visible there after TTL expiry.
func (s *Store) CreatePost(authorID uint, text string, groupID *uint, image string) (*models.Post, error) {
	text, err := cleanText(text)
	if err != nil {
		return nil, err
	}
	if groupID != nil {
		var group models.Group
		if err := s.db.First(&group, *groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ValidationError{Field: "group", Reason: "group does not exist"}
			}
			return nil, err
		}
	}

	post := models.Post{
		Text:     text,
		AuthorID: authorID,
		GroupID:  groupID,
		Image:    image,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return s.GetPost(post.ID)
}

// UpdatePost overwrites text and group of an existing post. Only the author
// may edit; the publication date never changes.
func (s *Store) UpdatePost(editorID, postID uint, text string, groupID *uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if post.AuthorID != editorID {
		return nil, ErrForbidden
	}

	text, err := cleanText(text)
	if err != nil {
		return nil, err
	}
	if groupID != nil {
		var group models.Group
		if err := s.db.First(&group, *groupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &ValidationError{Field: "group", Reason: "group does not exist"}
			}
			return nil, err
		}
	}

	err = s.db.Model(&post).
		Select("text", "group_id").
		Updates(map[string]interface{}{"text": text, "group_id": groupID}).Error
	if err != nil {
		return nil, err
	}
	return s.GetPost(postID)
}

// AddComment attaches a comment to an existing post.
func (s *Store) AddComment(authorID, postID uint, text string) (*models.Comment, error) {
	text, err := cleanText(text)
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comment := models.Comment{
		PostID:   post.ID,
		AuthorID: authorID,
		Text:     text,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Follow creates a follow edge from user to author. A duplicate edge is
// rejected by the unique index and reported as ErrConstraintViolation; two
// racing requests rely on the database to reject the second insert.
func (s *Store) Follow(userID uint, authorUsername string) error {
	author, err := s.GetUserByUsername(authorUsername)
	if err != nil {
		return err
	}
	if author.ID == userID {
		return &ValidationError{Field: "author", Reason: "cannot follow yourself"}
	}

	follow := models.Follow{UserID: userID, AuthorID: author.ID}
	if err := s.db.Create(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrConstraintViolation
		}
		return err
	}
	return nil
}

// Unfollow removes the follow edge from user to author. Removing an edge
// that does not exist is a no-op, not an error.
func (s *Store) Unfollow(userID uint, authorUsername string) error {
	author, err := s.GetUserByUsername(authorUsername)
	if err != nil {
		return err
	}
	return s.db.
		Where("user_id = ? AND author_id = ?", userID, author.ID).
		Delete(&models.Follow{}).Error
}

// CreateUser stores a new account with an already-hashed password. A taken
// username is reported as ErrConstraintViolation.
func (s *Store) CreateUser(username, email, passwordHash string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &ValidationError{Field: "username", Reason: "must not be empty"}
	}

	user := models.User{
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: passwordHash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConstraintViolation
		}
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account. Their posts, comments and follow edges in
// both directions go with it, enforced by the schema's cascade rules.
func (s *Store) DeleteUser(userID uint) error {
	res := s.db.Delete(&models.User{}, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateGroup stores a new group. An empty slug is derived from the title; a
// duplicate slug is reported as ErrConstraintViolation.
func (s *Store) CreateGroup(title, slug, description string) (*models.Group, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if slug == "" {
		slug = utils.Slugify(title)
	}
	if slug == "" {
		return nil, &ValidationError{Field: "slug", Reason: "must not be empty"}
	}

	group := models.Group{
		Title:       title,
		Slug:        slug,
		Description: strings.TrimSpace(description),
	}
	if err := s.db.Create(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConstraintViolation
		}
		return nil, err
	}
	return &group, nil
}

// DeleteGroup removes a group. Posts filed into it stay and lose their group
// reference via the schema's set-null rule.
func (s *Store) DeleteGroup(slug string) error {
	res := s.db.Where("slug = ?", slug).Delete(&models.Group{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// cleanText sanitizes user-supplied text and enforces the length bounds
// shared by posts and comments.
func cleanText(text string) (string, error) {
	text = strings.TrimSpace(utils.Sanitize(text))
	if text == "" {
		return "", &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if len([]rune(text)) > models.MaxPostTextLen {
		return "", &ValidationError{Field: "text", Reason: "too long"}
	}
	return text, nil
}
