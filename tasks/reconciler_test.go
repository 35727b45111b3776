package tasks

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Icebeear/cafe-app/cache"
	"github.com/Icebeear/cafe-app/entity"
	"github.com/Icebeear/cafe-app/repository"
	"github.com/Icebeear/cafe-app/services"
)

// fakeSource holds sheet rows in memory. WriteID has to be safe for
// concurrent use: menu units run in parallel.
type fakeSource struct {
	mu     sync.Mutex
	rows   [][]string
	writes int
}

func newFakeSource(rows [][]string) *fakeSource {
	return &fakeSource{rows: rows}
}

func (s *fakeSource) Load(ctx context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([][]string, len(s.rows))
	for i, row := range s.rows {
		out[i] = append([]string(nil), row...)
	}
	return out, nil
}

func (s *fakeSource) WriteID(ctx context.Context, col Column, rowIndex int, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var idx int
	switch col {
	case ColumnMenu:
		idx = 0
	case ColumnSubMenu:
		idx = 1
	case ColumnDish:
		idx = 2
	default:
		return fmt.Errorf("unknown column %q", col)
	}

	row := s.rows[rowIndex]
	for len(row) <= idx {
		row = append(row, "")
	}
	row[idx] = id
	s.rows[rowIndex] = row
	s.writes++
	return nil
}

func (s *fakeSource) cell(rowIndex, col int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if col >= len(s.rows[rowIndex]) {
		return ""
	}
	return s.rows[rowIndex][col]
}

func (s *fakeSource) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *fakeSource) replaceRows(rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
}

type reconcilerEnv struct {
	menus    *services.MenuService
	submenus *services.SubMenuService
	dishes   *services.DishService
	store    *cache.Cache
}

func newReconcilerEnv(t *testing.T) *reconcilerEnv {
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
	return &reconcilerEnv{
		menus:    services.NewMenuService(repository.NewMenuRepository(db), store),
		submenus: services.NewSubMenuService(submenuRepo, store),
		dishes:   services.NewDishService(repository.NewDishRepository(db), submenuRepo, store),
		store:    store,
	}
}

func (e *reconcilerEnv) reconciler(src Source) *Reconciler {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewReconciler(e.menus, e.submenus, e.dishes, e.store, src, log)
}

// Fresh sheet rows carry hand-written placeholder ids in their level's
// column; the first run replaces them with database ids.
func TestReconcilerCreatesTreeAndWritesIDs(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	src := newFakeSource([][]string{
		{"menu-1", "main menu", "menu desc"},
		{"", "submenu-1", "soups", "submenu desc"},
		{"", "", "dish-1", "borscht", "red", "100.00", "10"},
		{"", "", "dish-2", "okroshka", "cold", "50.50"},
	})

	require.NoError(t, env.reconciler(src).Run(ctx))

	menuID := src.cell(0, 0)
	assert.NotEqual(t, "menu-1", menuID)
	submenuID := src.cell(1, 1)
	assert.NotEqual(t, "submenu-1", submenuID)
	assert.NotEqual(t, "dish-1", src.cell(2, 2))
	assert.NotEqual(t, "dish-2", src.cell(3, 2))

	menu, err := env.menus.Resolve(ctx, menuID, false)
	require.NoError(t, err)
	assert.Equal(t, "main menu", menu.Title)
	assert.EqualValues(t, 1, menu.SubmenusCount)
	assert.EqualValues(t, 2, menu.DishesCount)

	dishes, err := env.dishes.List(ctx, submenuID, 0, -1, false)
	require.NoError(t, err)
	require.Len(t, dishes, 2)

	discounts, err := env.store.GetDiscounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.0, discounts[src.cell(2, 2)])
	assert.Equal(t, 0.0, discounts[src.cell(3, 2)])
}

func TestReconcilerIdempotent(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	src := newFakeSource([][]string{
		{"menu-1", "main menu", ""},
		{"", "submenu-1", "soups", ""},
		{"", "", "dish-1", "borscht", "", "100.00"},
	})
	rec := env.reconciler(src)

	require.NoError(t, rec.Run(ctx))
	menuID := src.cell(0, 0)
	submenuID := src.cell(1, 1)
	dishID := src.cell(2, 2)

	// Second run matches everything by id and changes nothing.
	require.NoError(t, rec.Run(ctx))
	assert.Equal(t, menuID, src.cell(0, 0))
	assert.Equal(t, submenuID, src.cell(1, 1))
	assert.Equal(t, dishID, src.cell(2, 2))

	menuIDs, err := env.menus.IDs(ctx)
	require.NoError(t, err)
	assert.Len(t, menuIDs, 1)
	dishIDs, err := env.dishes.IDs(ctx)
	require.NoError(t, err)
	assert.Len(t, dishIDs, 1)
}

func TestReconcilerNoWriteBackOnIDMatch(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	src := newFakeSource([][]string{
		{"menu-1", "main menu", ""},
		{"", "submenu-1", "soups", ""},
		{"", "", "dish-1", "borscht", "", "100.00"},
	})
	rec := env.reconciler(src)

	require.NoError(t, rec.Run(ctx))
	first := src.writeCount()
	assert.Equal(t, 3, first)

	// Every row now holds an authoritative id; a run must not spend a
	// single write on the sheet.
	require.NoError(t, rec.Run(ctx))
	assert.Equal(t, first, src.writeCount())
}

func TestReconcilerAdoptsMenuByTitle(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	existing, err := env.menus.Create(ctx, "main menu", "created by hand")
	require.NoError(t, err)

	src := newFakeSource([][]string{
		{"menu-1", "main menu", "from the sheet"},
	})
	require.NoError(t, env.reconciler(src).Run(ctx))

	// Adopted, not duplicated, and its id is now in the sheet.
	assert.Equal(t, existing.ID, src.cell(0, 0))

	menuIDs, err := env.menus.IDs(ctx)
	require.NoError(t, err)
	assert.Len(t, menuIDs, 1)

	menu, err := env.menus.Resolve(ctx, existing.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "from the sheet", menu.Description)
}

func TestReconcilerUpdatesFromSheet(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	src := newFakeSource([][]string{
		{"menu-1", "main menu", ""},
		{"", "submenu-1", "soups", ""},
		{"", "", "dish-1", "borscht", "", "100.00"},
	})
	rec := env.reconciler(src)
	require.NoError(t, rec.Run(ctx))

	submenuID := src.cell(1, 1)
	dishID := src.cell(2, 2)

	src.mu.Lock()
	src.rows[2][5] = "120.00"
	src.mu.Unlock()

	require.NoError(t, rec.Run(ctx))

	dish, err := env.dishes.Resolve(ctx, submenuID, dishID, false)
	require.NoError(t, err)
	assert.Equal(t, "120.00", dish.Price.StringFixed(2))
}

func TestReconcilerMatchesDishAcrossSubmenus(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	src := newFakeSource([][]string{
		{"menu-1", "main menu", ""},
		{"", "submenu-1", "soups", ""},
		{"", "", "dish-1", "borscht", "", "100.00"},
		{"", "submenu-2", "salads", ""},
	})
	rec := env.reconciler(src)
	require.NoError(t, rec.Run(ctx))

	menuID := src.cell(0, 0)
	soupsID := src.cell(1, 1)
	saladsID := src.cell(3, 1)
	dishID := src.cell(2, 2)

	// The staff drag the dish row under the other submenu. Its id must
	// still match, not trip over the global title invariant.
	src.replaceRows([][]string{
		{menuID, "main menu", ""},
		{"", soupsID, "soups", ""},
		{"", saladsID, "salads", ""},
		{"", "", dishID, "green borscht", "", "110.00"},
	})

	require.NoError(t, rec.Run(ctx))

	dish, err := env.dishes.Resolve(ctx, soupsID, dishID, false)
	require.NoError(t, err)
	assert.Equal(t, "green borscht", dish.Title)
	assert.Equal(t, "110.00", dish.Price.StringFixed(2))

	dishIDs, err := env.dishes.IDs(ctx)
	require.NoError(t, err)
	assert.Len(t, dishIDs, 1)
}

func TestReconcilerDeletesOrphans(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	src := newFakeSource([][]string{
		{"menu-1", "main menu", ""},
		{"", "submenu-1", "soups", ""},
		{"", "", "dish-1", "borscht", "", "100.00"},
	})
	rec := env.reconciler(src)
	require.NoError(t, rec.Run(ctx))

	menuID := src.cell(0, 0)
	submenuID := src.cell(1, 1)

	// Records the sheet no longer mentions.
	orphanMenu, err := env.menus.Create(ctx, "stale menu", "")
	require.NoError(t, err)
	orphanDish, err := env.dishes.Create(ctx, submenuID, "stale dish", "", "5.00")
	require.NoError(t, err)

	require.NoError(t, rec.Run(ctx))

	_, err = env.menus.Resolve(ctx, orphanMenu.ID, false)
	assert.ErrorIs(t, err, services.ErrMenuNotFound)
	_, err = env.dishes.Resolve(ctx, submenuID, orphanDish.ID, false)
	assert.ErrorIs(t, err, services.ErrDishNotFound)

	menu, err := env.menus.Resolve(ctx, menuID, false)
	require.NoError(t, err)
	assert.EqualValues(t, 1, menu.DishesCount)
}

func TestReconcilerSkipsDeletionOnUnitFailure(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	offSheet, err := env.menus.Create(ctx, "untouched menu", "")
	require.NoError(t, err)

	src := newFakeSource([][]string{
		{"menu-1", "broken menu", ""},
		{"", "submenu-1", "soups", ""},
		{"", "", "dish-1", "bad dish", "", "not a price"},
	})

	err = env.reconciler(src).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrInvalidPrice)

	// A failed unit means no deletion pass: the off-sheet menu survives.
	_, err = env.menus.Resolve(ctx, offSheet.ID, false)
	assert.NoError(t, err)
}

func TestReconcilerRemovesSubmenuDroppedFromSheet(t *testing.T) {
	env := newReconcilerEnv(t)
	ctx := context.Background()

	src := newFakeSource([][]string{
		{"menu-1", "main menu", ""},
		{"", "submenu-1", "soups", ""},
		{"", "submenu-2", "salads", ""},
	})
	rec := env.reconciler(src)
	require.NoError(t, rec.Run(ctx))

	menuID := src.cell(0, 0)
	saladsID := src.cell(2, 1)

	src.mu.Lock()
	src.rows = src.rows[:2]
	src.mu.Unlock()

	require.NoError(t, rec.Run(ctx))

	_, err := env.submenus.Resolve(ctx, menuID, saladsID, false)
	assert.ErrorIs(t, err, services.ErrSubMenuNotFound)
}
