package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Icebeear/cafe-app/cache"
	"github.com/Icebeear/cafe-app/entity"
	"github.com/Icebeear/cafe-app/repository"
)

type testEnv struct {
	menus    *MenuService
	submenus *SubMenuService
	dishes   *DishService
	store    *cache.Cache
	redis    *miniredis.Miniredis
	db       *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Menu{}, &entity.SubMenu{}, &entity.Dish{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	store := cache.New(rdb)

	submenuRepo := repository.NewSubMenuRepository(db)

	return &testEnv{
		menus:    NewMenuService(repository.NewMenuRepository(db), store),
		submenus: NewSubMenuService(submenuRepo, store),
		dishes:   NewDishService(repository.NewDishRepository(db), submenuRepo, store),
		store:    store,
		redis:    mr,
		db:       db,
	}
}

// seedTree creates a menu with one submenu and one dish through the
// services, returning their ids.
func (e *testEnv) seedTree(t *testing.T) (menuID, submenuID, dishID string) {
	t.Helper()
	ctx := context.Background()

	menu, err := e.menus.Create(ctx, "main menu", "d")
	require.NoError(t, err)

	submenu, err := e.submenus.Create(ctx, menu.ID, "soups", "d")
	require.NoError(t, err)

	dish, err := e.dishes.Create(ctx, submenu.ID, "borscht", "d", "100.00")
	require.NoError(t, err)

	return menu.ID, submenu.ID, dish.ID
}
