package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Icebeear/cafe-app/cache"
	"github.com/Icebeear/cafe-app/services"
)

// Reconciler makes the database match the sheet: rows are matched to
// records by id, then by title, then created; records without a surviving
// row are deleted. Generated ids are written back into the sheet so later
// runs match by id. Every run re-derives full state, so a partially failed
// run is corrected by the next one.
type Reconciler struct {
	menus    *services.MenuService
	submenus *services.SubMenuService
	dishes   *services.DishService
	store    *cache.Cache
	source   Source
	log      *slog.Logger
}

func NewReconciler(
	menus *services.MenuService,
	submenus *services.SubMenuService,
	dishes *services.DishService,
	store *cache.Cache,
	source Source,
	log *slog.Logger,
) *Reconciler {
	return &Reconciler{
		menus:    menus,
		submenus: submenus,
		dishes:   dishes,
		store:    store,
		source:   source,
		log:      log,
	}
}

// menuResult is what one per-menu unit hands back to the run: the ids it
// resolved and the discounts it collected. Units never touch shared state.
type menuResult struct {
	menuID    string
	dishIDs   []string
	discounts map[string]float64
}

func (r *Reconciler) Run(ctx context.Context) error {
	rows, err := r.source.Load(ctx)
	if err != nil {
		return err
	}
	tree := ParseRows(rows)

	existingMenuIDs, err := r.menus.IDs(ctx)
	if err != nil {
		return err
	}
	existingDishIDs, err := r.dishes.IDs(ctx)
	if err != nil {
		return err
	}
	dishIDSet := make(map[string]bool, len(existingDishIDs))
	for _, id := range existingDishIDs {
		dishIDSet[id] = true
	}

	// One unit per top-level menu; all must finish before the deletion
	// pass, which needs the complete set of resolved ids.
	results := make([]menuResult, len(tree))
	g, gctx := errgroup.WithContext(ctx)
	for i := range tree {
		g.Go(func() error {
			res, err := r.syncMenu(gctx, tree[i], dishIDSet)
			if err != nil {
				return fmt.Errorf("sync menu %q: %w", tree[i].Title, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// No deletion after a partial run: rows the failed unit would
		// have resolved must not be mistaken for orphans.
		return err
	}

	resolvedMenus := make(map[string]bool)
	resolvedDishes := make(map[string]bool)
	discounts := make(map[string]float64)
	for _, res := range results {
		resolvedMenus[res.menuID] = true
		for _, id := range res.dishIDs {
			resolvedDishes[id] = true
		}
		for id, pct := range res.discounts {
			discounts[id] = pct
		}
	}

	for _, id := range existingDishIDs {
		if resolvedDishes[id] {
			continue
		}
		// Cascades from submenu deletes may already have removed it.
		if err := r.dishes.Delete(ctx, id); err != nil && !errors.Is(err, services.ErrDishNotFound) {
			r.log.Warn("delete orphan dish", "dish_id", id, "error", err)
		}
	}
	for _, id := range existingMenuIDs {
		if resolvedMenus[id] {
			continue
		}
		if err := r.menus.Delete(ctx, id); err != nil && !errors.Is(err, services.ErrMenuNotFound) {
			r.log.Warn("delete orphan menu", "menu_id", id, "error", err)
		}
	}

	return r.store.SetDiscounts(ctx, discounts)
}

func (r *Reconciler) syncMenu(ctx context.Context, sm SheetMenu, allDishIDs map[string]bool) (menuResult, error) {
	res := menuResult{discounts: make(map[string]float64)}

	menuID, err := r.resolveMenuID(ctx, sm)
	if err != nil {
		return res, err
	}
	res.menuID = menuID

	existing, err := r.submenus.List(ctx, menuID, 0, -1, false)
	if err != nil {
		return res, err
	}
	byID := make(map[string]bool, len(existing))
	byTitle := make(map[string]string, len(existing))
	for _, ex := range existing {
		byID[ex.ID] = true
		byTitle[ex.Title] = ex.ID
	}

	resolved := make(map[string]bool, len(sm.Submenus))
	for _, ss := range sm.Submenus {
		submenuID, err := r.syncSubMenu(ctx, menuID, ss, byID, byTitle, allDishIDs, &res)
		if err != nil {
			return res, err
		}
		resolved[submenuID] = true
	}

	for _, ex := range existing {
		if resolved[ex.ID] {
			continue
		}
		if err := r.submenus.Delete(ctx, ex.ID); err != nil {
			return res, err
		}
	}

	return res, nil
}

// resolveMenuID finds or creates the menu for a sheet row. An id match is
// authoritative and is not written back; a title match or a create puts the
// resolved id into the sheet.
func (r *Reconciler) resolveMenuID(ctx context.Context, sm SheetMenu) (string, error) {
	if sm.ID != "" {
		menu, err := r.menus.Resolve(ctx, sm.ID, false)
		if err == nil {
			if _, err := r.menus.Update(ctx, menu.ID, &sm.Title, &sm.Description); err != nil {
				return "", err
			}
			return menu.ID, nil
		}
		if !errors.Is(err, services.ErrMenuNotFound) {
			return "", err
		}
	}

	// A menu created by hand before the first sync has no id in the sheet
	// yet; adopt it by title instead of duplicating it.
	if menu, err := r.menus.GetByTitle(ctx, sm.Title); err == nil {
		if _, err := r.menus.Update(ctx, menu.ID, &sm.Title, &sm.Description); err != nil {
			return "", err
		}
		return menu.ID, r.source.WriteID(ctx, ColumnMenu, sm.RowIndex, menu.ID)
	} else if !errors.Is(err, services.ErrMenuNotFound) {
		return "", err
	}

	menu, err := r.menus.Create(ctx, sm.Title, sm.Description)
	if err != nil {
		return "", err
	}
	return menu.ID, r.source.WriteID(ctx, ColumnMenu, sm.RowIndex, menu.ID)
}

func (r *Reconciler) syncSubMenu(ctx context.Context, menuID string, ss SheetSubMenu, byID map[string]bool, byTitle map[string]string, allDishIDs map[string]bool, res *menuResult) (string, error) {
	var submenuID string
	switch {
	case ss.ID != "" && byID[ss.ID]:
		// Authoritative id match, nothing to write back.
		if _, err := r.submenus.Update(ctx, menuID, ss.ID, &ss.Title, &ss.Description); err != nil {
			return "", err
		}
		submenuID = ss.ID
	case byTitle[ss.Title] != "":
		submenuID = byTitle[ss.Title]
		if _, err := r.submenus.Update(ctx, menuID, submenuID, &ss.Title, &ss.Description); err != nil {
			return "", err
		}
		if err := r.source.WriteID(ctx, ColumnSubMenu, ss.RowIndex, submenuID); err != nil {
			return "", err
		}
	default:
		created, err := r.submenus.Create(ctx, menuID, ss.Title, ss.Description)
		if err != nil {
			return "", err
		}
		submenuID = created.ID
		if err := r.source.WriteID(ctx, ColumnSubMenu, ss.RowIndex, submenuID); err != nil {
			return "", err
		}
	}

	existing, err := r.dishes.List(ctx, submenuID, 0, -1, false)
	if err != nil {
		return "", err
	}
	dishByTitle := make(map[string]string, len(existing))
	for _, ex := range existing {
		dishByTitle[ex.Title] = ex.ID
	}

	for _, sd := range ss.Dishes {
		dishID, err := r.syncDish(ctx, submenuID, sd, allDishIDs, dishByTitle)
		if err != nil {
			return "", err
		}
		res.dishIDs = append(res.dishIDs, dishID)
		res.discounts[dishID] = sd.Discount
	}

	return submenuID, nil
}

// syncDish matches the row's id against the whole catalog, not just the
// current submenu, so a row moved under a different submenu keeps its
// identity instead of colliding with the global title invariant.
func (r *Reconciler) syncDish(ctx context.Context, submenuID string, sd SheetDish, allDishIDs map[string]bool, byTitle map[string]string) (string, error) {
	if sd.ID != "" && allDishIDs[sd.ID] {
		if _, err := r.dishes.Update(ctx, submenuID, sd.ID, &sd.Title, &sd.Description, &sd.Price); err != nil {
			return "", err
		}
		return sd.ID, nil
	}

	if dishID := byTitle[sd.Title]; dishID != "" {
		if _, err := r.dishes.Update(ctx, submenuID, dishID, &sd.Title, &sd.Description, &sd.Price); err != nil {
			return "", err
		}
		return dishID, r.source.WriteID(ctx, ColumnDish, sd.RowIndex, dishID)
	}

	created, err := r.dishes.Create(ctx, submenuID, sd.Title, sd.Description, sd.Price)
	if err != nil {
		return "", err
	}
	return created.ID, r.source.WriteID(ctx, ColumnDish, sd.RowIndex, created.ID)
}
