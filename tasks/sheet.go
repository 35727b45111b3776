package tasks

import (
	"context"
	"strconv"
)

// Column addresses the spreadsheet column holding an entity's id.
type Column string

const (
	ColumnMenu    Column = "A"
	ColumnSubMenu Column = "B"
	ColumnDish    Column = "C"
)

// Source is the externally edited tabular document the reconciler syncs
// against. Load returns raw rows; WriteID puts a generated id back into the
// id column at the row's original position.
type Source interface {
	Load(ctx context.Context) ([][]string, error)
	WriteID(ctx context.Context, col Column, rowIndex int, id string) error
}

type SheetMenu struct {
	ID          string
	RowIndex    int
	Title       string
	Description string
	Submenus    []SheetSubMenu
}

type SheetSubMenu struct {
	ID          string
	RowIndex    int
	Title       string
	Description string
	Dishes      []SheetDish
}

type SheetDish struct {
	ID          string
	RowIndex    int
	Title       string
	Description string
	Price       string
	Discount    float64
}

// ParseRows groups raw sheet rows into the menu tree. A value in column A
// starts a menu; column B attaches a submenu to the last menu; column C
// attaches a dish to the last submenu. Anything else is skipped, as are
// submenu and dish rows with no open parent.
func ParseRows(rows [][]string) []SheetMenu {
	var menus []SheetMenu

	for i, row := range rows {
		switch {
		case cell(row, 0) != "":
			menus = append(menus, SheetMenu{
				ID:          cell(row, 0),
				RowIndex:    i,
				Title:       cell(row, 1),
				Description: cell(row, 2),
			})

		case cell(row, 1) != "":
			if len(menus) == 0 {
				continue
			}
			menu := &menus[len(menus)-1]
			menu.Submenus = append(menu.Submenus, SheetSubMenu{
				ID:          cell(row, 1),
				RowIndex:    i,
				Title:       cell(row, 2),
				Description: cell(row, 3),
			})

		case cell(row, 2) != "":
			if len(menus) == 0 {
				continue
			}
			menu := &menus[len(menus)-1]
			if len(menu.Submenus) == 0 {
				continue
			}
			submenu := &menu.Submenus[len(menu.Submenus)-1]
			submenu.Dishes = append(submenu.Dishes, SheetDish{
				ID:          cell(row, 2),
				RowIndex:    i,
				Title:       cell(row, 3),
				Description: cell(row, 4),
				Price:       cell(row, 5),
				Discount:    parseDiscount(cell(row, 6)),
			})
		}
	}

	return menus
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}

func parseDiscount(raw string) float64 {
	if raw == "" {
		return 0
	}
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return d
}
