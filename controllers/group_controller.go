package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/store"
	"github.com/quillhq/quill/utils"
)

// GroupController exposes the group catalogue and its listings; creation and
// deletion are limited to configured administrators.
type GroupController struct {
	store *store.Store
}

// NewGroupController creates a new GroupController instance.
func NewGroupController(st *store.Store) *GroupController {
	return &GroupController{store: st}
}

// ListGroups returns all groups.
func (g *GroupController) ListGroups(ctx *gin.Context) {
	groups, err := g.store.ListGroups()
	if err != nil {
		respondStoreError(ctx, err, 50040, "groups")
		return
	}
	utils.Success(ctx, gin.H{"groups": groups})
}

// GroupPosts returns the group and one page of its posts.
func (g *GroupController) GroupPosts(ctx *gin.Context) {
	group, page, err := g.store.ListGroupPosts(ctx.Param("slug"), ctx.Query("page"))
	if err != nil {
		respondStoreError(ctx, err, 50041, "group")
		return
	}
	utils.Success(ctx, gin.H{"group": group, "posts": page})
}

// CreateGroup creates a new group. Administrators only.
func (g *GroupController) CreateGroup(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40340, "administrator access required")
		return
	}

	var req struct {
		Title       string `json:"title" binding:"required"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	group, err := g.store.CreateGroup(req.Title, req.Slug, req.Description)
	if err != nil {
		respondStoreError(ctx, err, 50042, "group")
		return
	}
	utils.Success(ctx, gin.H{"group": group})
}

// DeleteGroup removes a group; its posts stay and lose the group reference.
// Administrators only.
func (g *GroupController) DeleteGroup(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40341, "administrator access required")
		return
	}

	if err := g.store.DeleteGroup(ctx.Param("slug")); err != nil {
		respondStoreError(ctx, err, 50043, "group")
		return
	}
	utils.Success(ctx, gin.H{"message": "group deleted"})
}
