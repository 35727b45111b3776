package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Icebeear/cafe-app/entity"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Menu{}, &entity.SubMenu{}, &entity.Dish{}))
	return db
}

// seedTree creates one menu with one submenu holding two dishes.
func seedTree(t *testing.T, db *gorm.DB) (menuID, submenuID string) {
	t.Helper()
	ctx := context.Background()

	menus := NewMenuRepository(db)
	submenus := NewSubMenuRepository(db)
	dishes := NewDishRepository(db)

	menu := &entity.Menu{Title: "main menu", Description: "d"}
	require.NoError(t, menus.Create(ctx, menu))

	submenu := &entity.SubMenu{Title: "soups", Description: "d", MenuID: menu.ID}
	require.NoError(t, submenus.Create(ctx, submenu))

	for i, title := range []string{"borscht", "solyanka"} {
		price, err := entity.ParsePrice(fmt.Sprintf("%d.50", 10+i))
		require.NoError(t, err)
		require.NoError(t, dishes.Create(ctx, &entity.Dish{
			Title:     title,
			Price:     price,
			SubmenuID: submenu.ID,
		}))
	}

	return menu.ID, submenu.ID
}
