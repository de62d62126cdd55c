package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/groupfeed/middleware"
	"github.com/cppla/groupfeed/services"
	"github.com/cppla/groupfeed/utils"
)

// respondError maps service errors onto the JSON envelope. notFoundCode and
// failCode keep the per-endpoint business codes distinguishable.
func respondError(ctx *gin.Context, err error, notFoundCode, failCode int) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.ErrorWithData(ctx, http.StatusBadRequest, 40020, "invalid form data", gin.H{"fields": verr.Fields})
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, notFoundCode, err.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		middleware.RespondUnauthenticated(ctx, 40110, "unauthorized")
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40301, "forbidden")
	default:
		utils.Logger.Error("request failed",
			zap.String("path", ctx.Request.URL.Path),
			zap.Int("code", failCode),
			zap.Error(err))
		utils.Error(ctx, http.StatusInternalServerError, failCode, "internal error")
	}
}

func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func bindJSON(ctx *gin.Context, out any) bool {
	if err := ctx.ShouldBindJSON(out); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40000, "invalid request payload")
		return false
	}
	return true
}
