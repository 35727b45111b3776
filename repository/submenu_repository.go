package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Icebeear/cafe-app/entity"
)

type SubMenuRepository struct {
	DB *gorm.DB
}

func NewSubMenuRepository(db *gorm.DB) *SubMenuRepository {
	return &SubMenuRepository{DB: db}
}

func (r *SubMenuRepository) FindByMenu(ctx context.Context, menuID string, offset, limit int) ([]entity.SubMenu, error) {
	submenus := []entity.SubMenu{}
	err := r.DB.WithContext(ctx).
		Where("menu_id = ?", menuID).
		Offset(offset).
		Limit(limit).
		Find(&submenus).Error
	return submenus, err
}

func (r *SubMenuRepository) FindByID(ctx context.Context, id string) (*entity.SubMenu, error) {
	var submenu entity.SubMenu
	err := r.DB.WithContext(ctx).First(&submenu, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &submenu, nil
}

func (r *SubMenuRepository) FindByTitle(ctx context.Context, title string) (*entity.SubMenu, error) {
	var submenu entity.SubMenu
	err := r.DB.WithContext(ctx).First(&submenu, "title = ?", title).Error
	if err != nil {
		return nil, err
	}
	return &submenu, nil
}

func (r *SubMenuRepository) Create(ctx context.Context, submenu *entity.SubMenu) error {
	return r.DB.WithContext(ctx).Create(submenu).Error
}

// UpdateFields overwrites only the given columns.
func (r *SubMenuRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Model(&entity.SubMenu{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *SubMenuRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&entity.SubMenu{}, "id = ?", id).Error
}

func (r *SubMenuRepository) CountDishes(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&entity.Dish{}).
		Where("submenu_id = ?", id).
		Count(&count).Error
	return count, err
}
