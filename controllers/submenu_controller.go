package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Icebeear/cafe-app/services"
)

type SubMenuController struct {
	menus    *services.MenuService
	submenus *services.SubMenuService
}

func NewSubMenuController(menus *services.MenuService, submenus *services.SubMenuService) *SubMenuController {
	return &SubMenuController{menus: menus, submenus: submenus}
}

type submenuInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"max=1024"`
}

type submenuUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description" binding:"omitempty,max=1024"`
}

// resolveMenu 404s with "menu not found" before any submenu work, matching
// the nested route contract.
func (ctl *SubMenuController) resolveMenu(c *gin.Context, cacheable bool) (string, bool) {
	menuID := c.Param("menu_id")
	if _, err := ctl.menus.Resolve(c.Request.Context(), menuID, cacheable); err != nil {
		respondError(c, err)
		return "", false
	}
	return menuID, true
}

// GET /api/v1/menus/:menu_id/submenus
func (ctl *SubMenuController) List(c *gin.Context) {
	menuID, ok := ctl.resolveMenu(c, true)
	if !ok {
		return
	}
	offset := queryInt(c, "offset", 0)
	limit := queryInt(c, "limit", 100)

	submenus, err := ctl.submenus.List(c.Request.Context(), menuID, offset, limit, true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submenus)
}

// GET /api/v1/menus/:menu_id/submenus/:submenu_id
func (ctl *SubMenuController) Get(c *gin.Context) {
	menuID, ok := ctl.resolveMenu(c, true)
	if !ok {
		return
	}

	submenu, err := ctl.submenus.Resolve(c.Request.Context(), menuID, c.Param("submenu_id"), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submenu)
}

// POST /api/v1/menus/:menu_id/submenus
func (ctl *SubMenuController) Create(c *gin.Context) {
	menuID, ok := ctl.resolveMenu(c, false)
	if !ok {
		return
	}

	var req submenuInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	submenu, err := ctl.submenus.Create(c.Request.Context(), menuID, req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, submenu)
}

// PATCH /api/v1/menus/:menu_id/submenus/:submenu_id
func (ctl *SubMenuController) Update(c *gin.Context) {
	menuID, ok := ctl.resolveMenu(c, false)
	if !ok {
		return
	}

	var req submenuUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	submenu, err := ctl.submenus.Update(c.Request.Context(), menuID, c.Param("submenu_id"), req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, submenu)
}

// DELETE /api/v1/menus/:menu_id/submenus/:submenu_id
func (ctl *SubMenuController) Delete(c *gin.Context) {
	if _, ok := ctl.resolveMenu(c, false); !ok {
		return
	}

	if err := ctl.submenus.Delete(c.Request.Context(), c.Param("submenu_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "The submenu has been deleted"})
}
