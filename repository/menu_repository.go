package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Icebeear/cafe-app/entity"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

func (r *MenuRepository) FindAll(ctx context.Context, offset, limit int) ([]entity.Menu, error) {
	menus := []entity.Menu{}
	err := r.DB.WithContext(ctx).
		Offset(offset).
		Limit(limit).
		Find(&menus).Error
	return menus, err
}

// FindAllNested loads every menu with its submenus and dishes embedded.
func (r *MenuRepository) FindAllNested(ctx context.Context) ([]entity.Menu, error) {
	menus := []entity.Menu{}
	err := r.DB.WithContext(ctx).
		Preload("Submenus.Dishes").
		Preload("Submenus").
		Find(&menus).Error
	return menus, err
}

func (r *MenuRepository) FindByID(ctx context.Context, id string) (*entity.Menu, error) {
	var menu entity.Menu
	err := r.DB.WithContext(ctx).First(&menu, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *MenuRepository) FindByTitle(ctx context.Context, title string) (*entity.Menu, error) {
	var menu entity.Menu
	err := r.DB.WithContext(ctx).First(&menu, "title = ?", title).Error
	if err != nil {
		return nil, err
	}
	return &menu, nil
}

func (r *MenuRepository) IDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	err := r.DB.WithContext(ctx).
		Model(&entity.Menu{}).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *MenuRepository) Create(ctx context.Context, menu *entity.Menu) error {
	return r.DB.WithContext(ctx).Create(menu).Error
}

// UpdateFields overwrites only the given columns.
func (r *MenuRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Model(&entity.Menu{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *MenuRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&entity.Menu{}, "id = ?", id).Error
}

// CountChildren returns the number of submenus referencing the menu and the
// number of dishes transitively under it.
func (r *MenuRepository) CountChildren(ctx context.Context, id string) (submenus, dishes int64, err error) {
	tx := r.DB.WithContext(ctx)

	if err = tx.Model(&entity.SubMenu{}).
		Where("menu_id = ?", id).
		Count(&submenus).Error; err != nil {
		return 0, 0, err
	}

	sub := tx.Model(&entity.SubMenu{}).Select("id").Where("menu_id = ?", id)
	if err = tx.Model(&entity.Dish{}).
		Where("submenu_id IN (?)", sub).
		Count(&dishes).Error; err != nil {
		return 0, 0, err
	}

	return submenus, dishes, nil
}

// SubmenuIDs lists the ids of the menu's submenus. Delete uses it to
// invalidate descendant cache entries before the rows cascade away.
func (r *MenuRepository) SubmenuIDs(ctx context.Context, id string) ([]string, error) {
	ids := []string{}
	err := r.DB.WithContext(ctx).
		Model(&entity.SubMenu{}).
		Where("menu_id = ?", id).
		Pluck("id", &ids).Error
	return ids, err
}
