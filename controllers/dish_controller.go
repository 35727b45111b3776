package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Icebeear/cafe-app/services"
)

type DishController struct {
	menus    *services.MenuService
	submenus *services.SubMenuService
	dishes   *services.DishService
}

func NewDishController(menus *services.MenuService, submenus *services.SubMenuService, dishes *services.DishService) *DishController {
	return &DishController{menus: menus, submenus: submenus, dishes: dishes}
}

type dishInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"max=1024"`
	Price       string `json:"price" binding:"required"`
}

type dishUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description" binding:"omitempty,max=1024"`
	Price       *string `json:"price"`
}

// resolveParents walks the route's ancestor path, 404ing at the first
// missing level.
func (ctl *DishController) resolveParents(c *gin.Context, cacheable bool) (menuID, submenuID string, ok bool) {
	menuID = c.Param("menu_id")
	submenuID = c.Param("submenu_id")

	if _, err := ctl.menus.Resolve(c.Request.Context(), menuID, cacheable); err != nil {
		respondError(c, err)
		return "", "", false
	}
	if _, err := ctl.submenus.Resolve(c.Request.Context(), menuID, submenuID, cacheable); err != nil {
		respondError(c, err)
		return "", "", false
	}
	return menuID, submenuID, true
}

// GET /api/v1/menus/:menu_id/submenus/:submenu_id/dishes
//
// No parent check here: the list is empty rather than 404 once the submenu
// is gone.
func (ctl *DishController) List(c *gin.Context) {
	offset := queryInt(c, "offset", 0)
	limit := queryInt(c, "limit", 100)

	dishes, err := ctl.dishes.List(c.Request.Context(), c.Param("submenu_id"), offset, limit, true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dishes)
}

// GET /api/v1/menus/:menu_id/submenus/:submenu_id/dishes/:dish_id
func (ctl *DishController) Get(c *gin.Context) {
	_, submenuID, ok := ctl.resolveParents(c, true)
	if !ok {
		return
	}

	dish, err := ctl.dishes.Resolve(c.Request.Context(), submenuID, c.Param("dish_id"), true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

// POST /api/v1/menus/:menu_id/submenus/:submenu_id/dishes
func (ctl *DishController) Create(c *gin.Context) {
	_, submenuID, ok := ctl.resolveParents(c, false)
	if !ok {
		return
	}

	var req dishInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	dish, err := ctl.dishes.Create(c.Request.Context(), submenuID, req.Title, req.Description, req.Price)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dish)
}

// PATCH /api/v1/menus/:menu_id/submenus/:submenu_id/dishes/:dish_id
func (ctl *DishController) Update(c *gin.Context) {
	_, submenuID, ok := ctl.resolveParents(c, false)
	if !ok {
		return
	}

	var req dishUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	dish, err := ctl.dishes.Update(c.Request.Context(), submenuID, c.Param("dish_id"), req.Title, req.Description, req.Price)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

// DELETE /api/v1/menus/:menu_id/submenus/:submenu_id/dishes/:dish_id
func (ctl *DishController) Delete(c *gin.Context) {
	if _, _, ok := ctl.resolveParents(c, false); !ok {
		return
	}

	if err := ctl.dishes.Delete(c.Request.Context(), c.Param("dish_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": true, "message": "The dish has been deleted"})
}
