package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Icebeear/cafe-app/controllers"
	"github.com/Icebeear/cafe-app/services"
)

func RegisterRoutes(r *gin.Engine, menus *services.MenuService, submenus *services.SubMenuService, dishes *services.DishService) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	menuCtrl := controllers.NewMenuController(menus)
	submenuCtrl := controllers.NewSubMenuController(menus, submenus)
	dishCtrl := controllers.NewDishController(menus, submenus, dishes)

	api := r.Group("/api/v1")

	m := api.Group("/menus")
	{
		m.POST("", menuCtrl.Create)
		m.GET("", menuCtrl.List)
		m.GET("/nested", menuCtrl.ListNested)
		m.GET("/:menu_id", menuCtrl.Get)
		m.PATCH("/:menu_id", menuCtrl.Update)
		m.DELETE("/:menu_id", menuCtrl.Delete)
	}

	sm := m.Group("/:menu_id/submenus")
	{
		sm.POST("", submenuCtrl.Create)
		sm.GET("", submenuCtrl.List)
		sm.GET("/:submenu_id", submenuCtrl.Get)
		sm.PATCH("/:submenu_id", submenuCtrl.Update)
		sm.DELETE("/:submenu_id", submenuCtrl.Delete)
	}

	d := sm.Group("/:submenu_id/dishes")
	{
		d.POST("", dishCtrl.Create)
		d.GET("", dishCtrl.List)
		d.GET("/:dish_id", dishCtrl.Get)
		d.PATCH("/:dish_id", dishCtrl.Update)
		d.DELETE("/:dish_id", dishCtrl.Delete)
	}
}
