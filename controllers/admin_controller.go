package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/store"
	"github.com/quillhq/quill/utils"
)

// AdminController holds maintenance endpoints for configured administrators.
type AdminController struct {
	store *store.Store
}

// NewAdminController creates a new AdminController instance.
func NewAdminController(st *store.Store) *AdminController {
	return &AdminController{store: st}
}

// ClearCache drops all cached listings so the next reads hit the database.
func (a *AdminController) ClearCache(ctx *gin.Context) {
	if !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40360, "administrator access required")
		return
	}
	a.store.ClearCache()
	utils.Success(ctx, gin.H{"message": "cache cleared"})
}
