package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Icebeear/cafe-app/services"
)

// respondError translates service errors into the API's error envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMenuNotFound),
		errors.Is(err, services.ErrSubMenuNotFound),
		errors.Is(err, services.ErrDishNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	case errors.Is(err, services.ErrSubMenuConflict),
		errors.Is(err, services.ErrDishConflict):
		c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
	case errors.Is(err, services.ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	}
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
