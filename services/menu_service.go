package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Icebeear/cafe-app/cache"
	"github.com/Icebeear/cafe-app/entity"
	"github.com/Icebeear/cafe-app/repository"
)

type MenuService struct {
	repo  *repository.MenuRepository
	store *cache.Cache
}

func NewMenuService(repo *repository.MenuRepository, store *cache.Cache) *MenuService {
	return &MenuService{repo: repo, store: store}
}

// Resolve looks a menu up by id, serving from cache when possible. The
// cache is only populated for pure reads (cacheable=true); mutating
// handlers resolve against the database so they never act on a stale copy.
func (s *MenuService) Resolve(ctx context.Context, menuID string, cacheable bool) (*entity.Menu, error) {
	if cacheable {
		var cached entity.Menu
		if hit, err := s.store.GetJSON(ctx, cache.MenuKey(menuID), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	menu, err := s.repo.FindByID(ctx, menuID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMenuNotFound
	}
	if err != nil {
		return nil, err
	}

	if menu.SubmenusCount, menu.DishesCount, err = s.repo.CountChildren(ctx, menuID); err != nil {
		return nil, err
	}

	if cacheable {
		_ = s.store.SetJSON(ctx, cache.MenuKey(menuID), menu, cache.EntityTTL)
	}

	return menu, nil
}

// GetByTitle is the sheet sync fallback for menus created by hand before
// the first run.
func (s *MenuService) GetByTitle(ctx context.Context, title string) (*entity.Menu, error) {
	menu, err := s.repo.FindByTitle(ctx, title)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMenuNotFound
	}
	return menu, err
}

func (s *MenuService) IDs(ctx context.Context) ([]string, error) {
	return s.repo.IDs(ctx)
}

func (s *MenuService) List(ctx context.Context, offset, limit int, cacheable bool) ([]entity.Menu, error) {
	fingerprint := cache.ListFingerprint("", offset, limit)

	if cacheable {
		if params, err := s.store.GetString(ctx, cache.MenusParams); err == nil && params == fingerprint {
			cached := []entity.Menu{}
			if hit, err := s.store.GetJSON(ctx, cache.AllMenus, &cached); err == nil && hit {
				return cached, nil
			}
		}
	}

	menus, err := s.repo.FindAll(ctx, offset, limit)
	if err != nil {
		return nil, err
	}
	for i := range menus {
		menus[i].SubmenusCount, menus[i].DishesCount, err = s.repo.CountChildren(ctx, menus[i].ID)
		if err != nil {
			return nil, err
		}
	}

	if cacheable {
		_ = s.store.SetJSON(ctx, cache.AllMenus, menus, cache.ListTTL)
		_ = s.store.SetString(ctx, cache.MenusParams, fingerprint, cache.ListTTL)
	}

	return menus, nil
}

// ListNested returns every menu with submenus and dishes embedded,
// discounts applied.
func (s *MenuService) ListNested(ctx context.Context) ([]entity.Menu, error) {
	cached := []entity.Menu{}
	if hit, err := s.store.GetJSON(ctx, cache.AllMenusNested, &cached); err == nil && hit {
		return cached, nil
	}

	menus, err := s.repo.FindAllNested(ctx)
	if err != nil {
		return nil, err
	}
	for i := range menus {
		menu := &menus[i]
		menu.SubmenusCount = int64(len(menu.Submenus))
		for j := range menu.Submenus {
			submenu := &menu.Submenus[j]
			submenu.DishesCount = int64(len(submenu.Dishes))
			menu.DishesCount += submenu.DishesCount
			applyDiscounts(ctx, s.store, submenu.Dishes)
		}
	}

	_ = s.store.SetJSON(ctx, cache.AllMenusNested, menus, cache.NestedTTL)

	return menus, nil
}

func (s *MenuService) Create(ctx context.Context, title, description string) (*entity.Menu, error) {
	menu := &entity.Menu{Title: title, Description: description}
	if err := s.repo.Create(ctx, menu); err != nil {
		return nil, err
	}

	_ = s.store.ClearLists(ctx)

	return menu, nil
}

func (s *MenuService) Update(ctx context.Context, menuID string, title, description *string) (*entity.Menu, error) {
	if _, err := s.Resolve(ctx, menuID, false); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if title != nil {
		fields["title"] = *title
	}
	if description != nil {
		fields["description"] = *description
	}
	if err := s.repo.UpdateFields(ctx, menuID, fields); err != nil {
		return nil, err
	}

	_ = s.store.Delete(ctx, cache.MenuKey(menuID))
	_ = s.store.ClearLists(ctx)

	return s.Resolve(ctx, menuID, false)
}

// Delete removes the menu and, through the database cascade, its whole
// subtree. Descendant cache keys are collected before the rows disappear.
func (s *MenuService) Delete(ctx context.Context, menuID string) error {
	if _, err := s.Resolve(ctx, menuID, false); err != nil {
		return err
	}

	submenuIDs, err := s.repo.SubmenuIDs(ctx, menuID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, menuID); err != nil {
		return err
	}

	_ = s.store.Delete(ctx, cache.MenuKey(menuID))
	_, _ = s.store.DeleteByPattern(ctx, cache.SubMenuPattern(menuID))
	for _, submenuID := range submenuIDs {
		_, _ = s.store.DeleteByPattern(ctx, cache.DishPattern(submenuID))
	}
	_ = s.store.ClearLists(ctx)

	return nil
}
