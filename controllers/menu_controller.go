package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Icebeear/cafe-app/services"
)

type MenuController struct {
	menus *services.MenuService
}

func NewMenuController(menus *services.MenuService) *MenuController {
	return &MenuController{menus: menus}
}

type menuInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"max=1024"`
}

type menuUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description" binding:"omitempty,max=1024"`
}

// GET /api/v1/menus
func (ctl *MenuController) List(c *gin.Context) {
	offset := queryInt(c, "offset", 0)
	limit := queryInt(c, "limit", 100)

	menus, err := ctl.menus.List(c.Request.Context(), offset, limit, true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menus)
}

// GET /api/v1/menus/nested
func (ctl *MenuController) ListNested(c *gin.Context) {
	menus, err := ctl.menus.ListNested(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menus)
}

// GET /api/v1/menus/:menu_id
func (ctl *MenuController) Get(c *gin.Context) {
	menu, err := ctl.menus.Resolve(c.Request.Context(), c.Param("menu_id"), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// POST /api/v1/menus
func (ctl *MenuController) Create(c *gin.Context) {
	var req menuInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	menu, err := ctl.menus.Create(c.Request.Context(), req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, menu)
}

// PATCH /api/v1/menus/:menu_id
func (ctl *MenuController) Update(c *gin.Context) {
	var req menuUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	menu, err := ctl.menus.Update(c.Request.Context(), c.Param("menu_id"), req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// DELETE /api/v1/menus/:menu_id
func (ctl *MenuController) Delete(c *gin.Context) {
	if err := ctl.menus.Delete(c.Request.Context(), c.Param("menu_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "The menu has been deleted"})
}
