package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/store"
	"github.com/quillhq/quill/utils"
)

// UserController serves author profiles, the follow graph and the
// personalized feed.
type UserController struct {
	store *store.Store
}

// NewUserController creates a new UserController instance.
func NewUserController(st *store.Store) *UserController {
	return &UserController{store: st}
}

// Profile returns an author with one page of their posts, follower counts
// and, for an authenticated viewer, whether they follow the author.
func (u *UserController) Profile(ctx *gin.Context) {
	author, page, err := u.store.ListAuthorPosts(ctx.Param("username"), ctx.Query("page"))
	if err != nil {
		respondStoreError(ctx, err, 50050, "user")
		return
	}

	followers, following, err := u.store.FollowCounts(author.ID)
	if err != nil {
		respondStoreError(ctx, err, 50051, "user")
		return
	}

	isFollowing := false
	if viewerID, ok := getUserID(ctx); ok && viewerID != author.ID {
		isFollowing, err = u.store.IsFollowing(viewerID, author.ID)
		if err != nil {
			respondStoreError(ctx, err, 50052, "user")
			return
		}
	}

	utils.Success(ctx, gin.H{
		"author":       author,
		"posts":        page,
		"followers":    followers,
		"following":    following,
		"is_following": isFollowing,
	})
}

// Feed returns one page of posts by the authors the authenticated user follows.
func (u *UserController) Feed(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40150, "unauthorized")
		return
	}

	page, err := u.store.ListFeed(userID, ctx.Query("page"))
	if err != nil {
		respondStoreError(ctx, err, 50053, "feed")
		return
	}
	utils.Success(ctx, page)
}

// Follow creates a follow edge to the author in the path. Following the same
// author twice is a conflict, not a silent no-op.
func (u *UserController) Follow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40151, "unauthorized")
		return
	}

	if err := u.store.Follow(userID, ctx.Param("username")); err != nil {
		respondStoreError(ctx, err, 50054, "follow")
		return
	}
	utils.Success(ctx, gin.H{"message": "followed"})
}

// Unfollow removes the follow edge to the author in the path. Removing an
// absent edge succeeds.
func (u *UserController) Unfollow(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40152, "unauthorized")
		return
	}

	if err := u.store.Unfollow(userID, ctx.Param("username")); err != nil {
		respondStoreError(ctx, err, 50055, "follow")
		return
	}
	utils.Success(ctx, gin.H{"message": "unfollowed"})
}
