package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quillhq/quill/config"
	"github.com/quillhq/quill/store"
	"github.com/quillhq/quill/utils"
)

// PostController manages CRUD operations for posts and comments.
type PostController struct {
	store *store.Store
}

// NewPostController creates a new PostController instance.
func NewPostController(st *store.Store) *PostController {
	return &PostController{store: st}
}

// ListPosts returns one page of the index listing. Served through the page
// cache, so a post written moments ago may be missing until the TTL passes.
func (p *PostController) ListPosts(ctx *gin.Context) {
	page, err := p.store.ListPosts(ctx.Query("page"))
	if err != nil {
		respondStoreError(ctx, err, 50020, "posts")
		return
	}
	utils.Success(ctx, page)
}

// GetPost returns a single post with its comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}

	post, err := p.store.GetPost(postID)
	if err != nil {
		respondStoreError(ctx, err, 50021, "post")
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Text    string `json:"text" binding:"required"`
		GroupID *uint  `json:"group_id"`
		Image   string `json:"image"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	post, err := p.store.CreatePost(userID, req.Text, req.GroupID, req.Image)
	if err != nil {
		respondStoreError(ctx, err, 50022, "post")
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// UpdatePost allows the author to overwrite text and group of their post.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req struct {
		Text    string `json:"text" binding:"required"`
		GroupID *uint  `json:"group_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid request payload")
		return
	}

	postID, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "unauthorized")
		return
	}

	post, err := p.store.UpdatePost(userID, postID, req.Text, req.GroupID)
	if err != nil {
		respondStoreError(ctx, err, 50023, "post")
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// CreateComment allows authenticated users to comment on posts.
func (p *PostController) CreateComment(ctx *gin.Context) {
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	postID, err := parseID(ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40122, "unauthorized")
		return
	}

	comment, err := p.store.AddComment(userID, postID, req.Text)
	if err != nil {
		respondStoreError(ctx, err, 50024, "comment")
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

// UploadImage stores an image attachment under the media root and returns
// the reference path a post can carry. Only the reference is persisted with
// the post; the bytes live in the media store.
func (p *PostController) UploadImage(ctx *gin.Context) {
	if _, ok := getUserID(ctx); !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40123, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("image")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "no file uploaded")
		return
	}
	defer file.Close()

	const maxSize = 10 * 1024 * 1024
	if header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40031, "file size exceeds 10MB")
		return
	}

	now := time.Now().UTC()
	baseDir := filepath.Join(config.Get().MediaRoot, "posts", now.Format("2006"), now.Format("01"))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create upload directory")
		return
	}

	ext := filepath.Ext(header.Filename)
	name := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	dstPath := filepath.Join(baseDir, name)

	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to save file")
		return
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(file, maxSize)); err != nil {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to write file")
		return
	}

	utils.Success(ctx, gin.H{
		"image": fmt.Sprintf("posts/%s/%s/%s", now.Format("2006"), now.Format("01"), name),
	})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
