package services

import (
	"context"

	"github.com/Icebeear/cafe-app/cache"
	"github.com/Icebeear/cafe-app/entity"
)

// applyDiscounts rewrites dish prices using the discount table the sheet
// sync job maintains. Cache errors leave prices untouched: the discount
// table is advisory, not part of the stored price.
func applyDiscounts(ctx context.Context, store *cache.Cache, dishes []entity.Dish) {
	if len(dishes) == 0 {
		return
	}
	discounts, err := store.GetDiscounts(ctx)
	if err != nil || len(discounts) == 0 {
		return
	}
	for i := range dishes {
		if pct, ok := discounts[dishes[i].ID]; ok {
			dishes[i].Price = dishes[i].Price.Discounted(pct)
		}
	}
}
