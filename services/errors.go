package services

import "errors"

var (
	ErrMenuNotFound    = errors.New("menu not found")
	ErrSubMenuNotFound = errors.New("submenu not found")
	ErrDishNotFound    = errors.New("dish not found")

	ErrSubMenuConflict = errors.New("submenu cannot be in 2 menus at the same time")
	ErrDishConflict    = errors.New("dish cannot be in 2 submenus at the same time")

	ErrInvalidPrice = errors.New("price must be a decimal number")
)
