package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Icebeear/cafe-app/cache"
	"github.com/Icebeear/cafe-app/entity"
	"github.com/Icebeear/cafe-app/repository"
)

type SubMenuService struct {
	repo  *repository.SubMenuRepository
	store *cache.Cache
}

func NewSubMenuService(repo *repository.SubMenuRepository, store *cache.Cache) *SubMenuService {
	return &SubMenuService{repo: repo, store: store}
}

// Resolve looks a submenu up by id. The route carries the parent menu id,
// so the cache key is derived directly, without a pattern scan.
func (s *SubMenuService) Resolve(ctx context.Context, menuID, submenuID string, cacheable bool) (*entity.SubMenu, error) {
	if cacheable {
		var cached entity.SubMenu
		if hit, err := s.store.GetJSON(ctx, cache.SubMenuKey(menuID, submenuID), &cached); err == nil && hit {
			return &cached, nil
		}
	}

	submenu, err := s.repo.FindByID(ctx, submenuID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubMenuNotFound
	}
	if err != nil {
		return nil, err
	}

	if submenu.DishesCount, err = s.repo.CountDishes(ctx, submenuID); err != nil {
		return nil, err
	}

	if cacheable {
		_ = s.store.SetJSON(ctx, cache.SubMenuKey(submenu.MenuID, submenu.ID), submenu, cache.EntityTTL)
	}

	return submenu, nil
}

func (s *SubMenuService) List(ctx context.Context, menuID string, offset, limit int, cacheable bool) ([]entity.SubMenu, error) {
	fingerprint := cache.ListFingerprint(menuID, offset, limit)

	if cacheable {
		if params, err := s.store.GetString(ctx, cache.SubMenusParams); err == nil && params == fingerprint {
			cached := []entity.SubMenu{}
			if hit, err := s.store.GetJSON(ctx, cache.AllSubMenus, &cached); err == nil && hit {
				return cached, nil
			}
		}
	}

	submenus, err := s.repo.FindByMenu(ctx, menuID, offset, limit)
	if err != nil {
		return nil, err
	}
	for i := range submenus {
		if submenus[i].DishesCount, err = s.repo.CountDishes(ctx, submenus[i].ID); err != nil {
			return nil, err
		}
	}

	if cacheable {
		_ = s.store.SetJSON(ctx, cache.AllSubMenus, submenus, cache.ListTTL)
		_ = s.store.SetString(ctx, cache.SubMenusParams, fingerprint, cache.ListTTL)
	}

	return submenus, nil
}

func (s *SubMenuService) Create(ctx context.Context, menuID, title, description string) (*entity.SubMenu, error) {
	if _, err := s.repo.FindByTitle(ctx, title); err == nil {
		return nil, ErrSubMenuConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	submenu := &entity.SubMenu{Title: title, Description: description, MenuID: menuID}
	if err := s.repo.Create(ctx, submenu); err != nil {
		return nil, err
	}

	// The parent's submenus_count changed.
	_ = s.store.Delete(ctx, cache.MenuKey(menuID))
	_ = s.store.ClearLists(ctx)

	return submenu, nil
}

func (s *SubMenuService) Update(ctx context.Context, menuID, submenuID string, title, description *string) (*entity.SubMenu, error) {
	if _, err := s.Resolve(ctx, menuID, submenuID, false); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if title != nil {
		fields["title"] = *title
	}
	if description != nil {
		fields["description"] = *description
	}
	if err := s.repo.UpdateFields(ctx, submenuID, fields); err != nil {
		return nil, err
	}

	_ = s.store.Delete(ctx, cache.SubMenuKey(menuID, submenuID))
	_ = s.store.ClearLists(ctx)

	return s.Resolve(ctx, menuID, submenuID, false)
}

// Delete removes the submenu and cascades to its dishes. The parent menu id
// is read from the record so callers (the sheet sync in particular) only
// need the submenu id.
func (s *SubMenuService) Delete(ctx context.Context, submenuID string) error {
	submenu, err := s.repo.FindByID(ctx, submenuID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrSubMenuNotFound
	}
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, submenuID); err != nil {
		return err
	}

	_ = s.store.Delete(ctx,
		cache.SubMenuKey(submenu.MenuID, submenuID),
		cache.MenuKey(submenu.MenuID),
	)
	_, _ = s.store.DeleteByPattern(ctx, cache.DishPattern(submenuID))
	_ = s.store.ClearLists(ctx)

	return nil
}
