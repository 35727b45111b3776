package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Price is a fixed-point amount stored as numeric(10,2). It serializes as a
// string with exactly two fraction digits, which is what the API exposes.
type Price struct {
	decimal.Decimal
}

func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, err
	}
	return Price{d.Round(2)}, nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.StringFixed(2))
}

func (p *Price) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	p.Decimal = d
	return nil
}

func (p Price) Value() (driver.Value, error) {
	return p.StringFixed(2), nil
}

func (p *Price) Scan(v any) error {
	switch val := v.(type) {
	case nil:
		p.Decimal = decimal.Zero
		return nil
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return err
		}
		p.Decimal = d
		return nil
	case []byte:
		d, err := decimal.NewFromString(string(val))
		if err != nil {
			return err
		}
		p.Decimal = d
		return nil
	case float64:
		p.Decimal = decimal.NewFromFloat(val)
		return nil
	case int64:
		p.Decimal = decimal.NewFromInt(val)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Price", v)
	}
}

// Discounted returns the price reduced by the given percentage.
func (p Price) Discounted(percent float64) Price {
	if percent <= 0 {
		return p
	}
	factor := decimal.NewFromFloat(percent).Div(decimal.NewFromInt(100))
	return Price{p.Sub(p.Mul(factor))}
}
