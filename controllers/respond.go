package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"hotel-core/services"
	"hotel-core/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the HTTP surface: validation
// problems are the caller's to fix (400), conflicts invite a retry with
// different room/dates (409), policy rejections are 422, anything else
// is a server fault.
func respondError(c *gin.Context, err error) {
	switch {
	case services.IsValidationError(err) != nil:
		ve := services.IsValidationError(err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   ve.Error(),
			"field":   ve.Field,
		})
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrRoomConflict), errors.Is(err, services.ErrPromoExhausted):
		utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotCancellable), errors.Is(err, services.ErrInvalidTransition):
		utils.JSONError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrForbidden):
		utils.JSONError(c, http.StatusForbidden, err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// actorFrom reads the identity the middleware attached. Operations are
// given the actor explicitly; nothing reads ambient request state.
func actorFrom(c *gin.Context) services.Actor {
	if v, ok := c.Get("actor"); ok {
		if actor, ok2 := v.(services.Actor); ok2 {
			return actor
		}
	}
	return services.Actor{}
}
