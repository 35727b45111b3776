package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Icebeear/cafe-app/entity"
)

type DishRepository struct {
	DB *gorm.DB
}

func NewDishRepository(db *gorm.DB) *DishRepository {
	return &DishRepository{DB: db}
}

func (r *DishRepository) FindBySubMenu(ctx context.Context, submenuID string, offset, limit int) ([]entity.Dish, error) {
	dishes := []entity.Dish{}
	err := r.DB.WithContext(ctx).
		Where("submenu_id = ?", submenuID).
		Offset(offset).
		Limit(limit).
		Find(&dishes).Error
	return dishes, err
}

func (r *DishRepository) FindByID(ctx context.Context, id string) (*entity.Dish, error) {
	var dish entity.Dish
	err := r.DB.WithContext(ctx).First(&dish, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

// FindByTitle matches across every submenu: dish titles are unique in the
// whole catalog, not per submenu.
func (r *DishRepository) FindByTitle(ctx context.Context, title string) (*entity.Dish, error) {
	var dish entity.Dish
	err := r.DB.WithContext(ctx).First(&dish, "title = ?", title).Error
	if err != nil {
		return nil, err
	}
	return &dish, nil
}

func (r *DishRepository) IDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	err := r.DB.WithContext(ctx).
		Model(&entity.Dish{}).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *DishRepository) Create(ctx context.Context, dish *entity.Dish) error {
	return r.DB.WithContext(ctx).Create(dish).Error
}

// UpdateFields overwrites only the given columns.
func (r *DishRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Model(&entity.Dish{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *DishRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&entity.Dish{}, "id = ?", id).Error
}
