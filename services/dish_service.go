package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Icebeear/cafe-app/cache"
	"github.com/Icebeear/cafe-app/entity"
	"github.com/Icebeear/cafe-app/repository"
)

type DishService struct {
	repo     *repository.DishRepository
	submenus *repository.SubMenuRepository
	store    *cache.Cache
}

func NewDishService(repo *repository.DishRepository, submenus *repository.SubMenuRepository, store *cache.Cache) *DishService {
	return &DishService{repo: repo, submenus: submenus, store: store}
}

// Resolve looks a dish up by id. The cached copy holds the raw price; the
// discount is applied on every read so a sync run takes effect without
// waiting out the TTL.
func (s *DishService) Resolve(ctx context.Context, submenuID, dishID string, cacheable bool) (*entity.Dish, error) {
	if cacheable {
		var cached entity.Dish
		if hit, err := s.store.GetJSON(ctx, cache.DishKey(submenuID, dishID), &cached); err == nil && hit {
			s.applyDiscount(ctx, &cached)
			return &cached, nil
		}
	}

	dish, err := s.repo.FindByID(ctx, dishID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDishNotFound
	}
	if err != nil {
		return nil, err
	}

	if cacheable {
		_ = s.store.SetJSON(ctx, cache.DishKey(dish.SubmenuID, dish.ID), dish, cache.EntityTTL)
	}

	s.applyDiscount(ctx, dish)

	return dish, nil
}

// List returns the submenu's dishes. A missing submenu yields an empty
// list, not a 404: clients poll dish lists after cascade deletes.
func (s *DishService) List(ctx context.Context, submenuID string, offset, limit int, cacheable bool) ([]entity.Dish, error) {
	fingerprint := cache.ListFingerprint(submenuID, offset, limit)

	if cacheable {
		if params, err := s.store.GetString(ctx, cache.DishesParams); err == nil && params == fingerprint {
			cached := []entity.Dish{}
			if hit, err := s.store.GetJSON(ctx, cache.AllDishes, &cached); err == nil && hit {
				applyDiscounts(ctx, s.store, cached)
				return cached, nil
			}
		}
	}

	dishes, err := s.repo.FindBySubMenu(ctx, submenuID, offset, limit)
	if err != nil {
		return nil, err
	}

	if cacheable {
		_ = s.store.SetJSON(ctx, cache.AllDishes, dishes, cache.ListTTL)
		_ = s.store.SetString(ctx, cache.DishesParams, fingerprint, cache.ListTTL)
	}

	applyDiscounts(ctx, s.store, dishes)

	return dishes, nil
}

func (s *DishService) IDs(ctx context.Context) ([]string, error) {
	return s.repo.IDs(ctx)
}

func (s *DishService) Create(ctx context.Context, submenuID, title, description, price string) (*entity.Dish, error) {
	parsed, err := entity.ParsePrice(price)
	if err != nil {
		return nil, ErrInvalidPrice
	}

	if _, err := s.repo.FindByTitle(ctx, title); err == nil {
		return nil, ErrDishConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	dish := &entity.Dish{
		Title:       title,
		Description: description,
		Price:       parsed,
		SubmenuID:   submenuID,
	}
	if err := s.repo.Create(ctx, dish); err != nil {
		return nil, err
	}

	s.invalidateParents(ctx, submenuID)
	_ = s.store.ClearLists(ctx)

	return dish, nil
}

func (s *DishService) Update(ctx context.Context, submenuID, dishID string, title, description, price *string) (*entity.Dish, error) {
	if _, err := s.Resolve(ctx, submenuID, dishID, false); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if title != nil {
		fields["title"] = *title
	}
	if description != nil {
		fields["description"] = *description
	}
	if price != nil {
		parsed, err := entity.ParsePrice(*price)
		if err != nil {
			return nil, ErrInvalidPrice
		}
		fields["price"] = parsed
	}
	if err := s.repo.UpdateFields(ctx, dishID, fields); err != nil {
		return nil, err
	}

	_ = s.store.Delete(ctx, cache.DishKey(submenuID, dishID))
	s.invalidateParents(ctx, submenuID)
	_ = s.store.ClearLists(ctx)

	return s.Resolve(ctx, submenuID, dishID, false)
}

func (s *DishService) Delete(ctx context.Context, dishID string) error {
	dish, err := s.repo.FindByID(ctx, dishID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrDishNotFound
	}
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, dishID); err != nil {
		return err
	}

	_ = s.store.Delete(ctx, cache.DishKey(dish.SubmenuID, dishID))
	s.invalidateParents(ctx, dish.SubmenuID)
	_ = s.store.ClearLists(ctx)

	return nil
}

// invalidateParents drops the submenu's and menu's cached copies: their
// dishes_count changed.
func (s *DishService) invalidateParents(ctx context.Context, submenuID string) {
	submenu, err := s.submenus.FindByID(ctx, submenuID)
	if err != nil {
		return
	}
	_ = s.store.Delete(ctx,
		cache.SubMenuKey(submenu.MenuID, submenuID),
		cache.MenuKey(submenu.MenuID),
	)
}

func (s *DishService) applyDiscount(ctx context.Context, dish *entity.Dish) {
	discounts, err := s.store.GetDiscounts(ctx)
	if err != nil || len(discounts) == 0 {
		return
	}
	if pct, ok := discounts[dish.ID]; ok {
		dish.Price = dish.Price.Discounted(pct)
	}
}
