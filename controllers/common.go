package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quillhq/quill/config"
	"github.com/quillhq/quill/middleware"
	"github.com/quillhq/quill/store"
	"github.com/quillhq/quill/utils"
)

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func isAdmin(ctx *gin.Context) bool {
	unameVal, exists := ctx.Get(middleware.ContextUsernameKey)
	if !exists {
		return false
	}
	uname, _ := unameVal.(string)
	if uname == "" {
		return false
	}
	cfg := config.Get()
	for _, u := range cfg.AdminUsernames {
		if strings.EqualFold(strings.TrimSpace(u), uname) {
			return true
		}
	}
	return false
}

// respondStoreError maps typed store errors onto the JSON envelope.
// internalCode identifies the call site in logs when the failure is not one
// of the expected domain errors.
func respondStoreError(ctx *gin.Context, err error, internalCode int, what string) {
	var ve *store.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40400, what+" not found")
	case errors.Is(err, store.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40300, "you do not own this "+what)
	case errors.Is(err, store.ErrConstraintViolation):
		utils.Error(ctx, http.StatusConflict, 40900, what+" already exists")
	case errors.As(err, &ve):
		utils.Error(ctx, http.StatusBadRequest, 40000, ve.Error())
	default:
		utils.Sugar.Errorw("store operation failed", "code", internalCode, "what", what, "err", err)
		utils.Error(ctx, http.StatusInternalServerError, internalCode, "failed to process "+what)
	}
}
