package cache

import (
	"fmt"
	"time"
)

// Collection keys. Each list cache is paired with a params key holding the
// fingerprint of the request it was built for; a cached list is only served
// when the fingerprints match.
const (
	AllMenus       = "all_menus"
	AllSubMenus    = "all_submenus"
	AllDishes      = "all_dishes"
	AllMenusNested = "all_menus_nested"

	MenusParams    = "menus_params"
	SubMenusParams = "submenus_params"
	DishesParams   = "dishes_params"

	// Dish id -> discount percent, written only by the sheet sync job.
	Discounts = "discounts"
)

const (
	EntityTTL = 600 * time.Second
	ListTTL   = 3600 * time.Second
	NestedTTL = 6000 * time.Second
)

func MenuKey(menuID string) string {
	return "menu_" + menuID
}

func SubMenuKey(menuID, submenuID string) string {
	return menuID + "_submenu_" + submenuID
}

func DishKey(submenuID, dishID string) string {
	return submenuID + "_dish_" + dishID
}

// SubMenuPattern matches every cached submenu under a menu.
func SubMenuPattern(menuID string) string {
	return menuID + "_submenu_*"
}

// DishPattern matches every cached dish under a submenu.
func DishPattern(submenuID string) string {
	return submenuID + "_dish_*"
}

// ListFingerprint identifies the exact request a list cache was built for.
// parentID is empty for the top-level menu collection.
func ListFingerprint(parentID string, offset, limit int) string {
	return fmt.Sprintf("%s_%d_%d", parentID, offset, limit)
}
