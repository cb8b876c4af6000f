package pricing

import (
	"github.com/SchoolMenu/nutrition-sona/internal/calendar"
	"github.com/SchoolMenu/nutrition-sona/internal/menu"
	"github.com/shopspring/decimal"
)

// DefaultPrice is charged when no strategy knows the dish.
var DefaultPrice = decimal.NewFromInt(40)

// Strategy resolves the price of a dish served on a date.
type Strategy interface {
	Price(date calendar.Date, name string) (decimal.Decimal, bool)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(date calendar.Date, name string) (decimal.Decimal, bool)

func (f StrategyFunc) Price(date calendar.Date, name string) (decimal.Decimal, bool) {
	return f(date, name)
}

// Resolver tries each strategy in order and falls back to a fixed amount.
type Resolver struct {
	strategies []Strategy
	fallback   decimal.Decimal
}

func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies, fallback: DefaultPrice}
}

// Default resolves catalog, then legacy table, then DefaultPrice.
func Default(catalog menu.Catalog) *Resolver {
	return NewResolver(FromCatalog(catalog), Legacy())
}

func (r *Resolver) WithFallback(amount decimal.Decimal) *Resolver {
	r.fallback = amount
	return r
}

// Price never fails.
func (r *Resolver) Price(date calendar.Date, name string) decimal.Decimal {
	for _, s := range r.strategies {
		if p, ok := s.Price(date, name); ok {
			return p
		}
	}
	return r.fallback
}

// FromCatalog prices a dish by the menu item published under that name on
// that date. Items with a zero price are treated as unpriced.
func FromCatalog(catalog menu.Catalog) Strategy {
	index := make(map[calendar.Date]map[string]decimal.Decimal, len(catalog))
	for _, day := range catalog {
		prices := make(map[string]decimal.Decimal)
		for _, it := range day.Items() {
			if it.Price.IsPositive() {
				prices[it.Name] = it.Price
			}
		}
		index[day.Date] = prices
	}

	return StrategyFunc(func(date calendar.Date, name string) (decimal.Decimal, bool) {
		p, ok := index[date][name]
		return p, ok
	})
}

// legacy prices of dishes ordered before menu items carried a price
var legacyPrices = map[string]int64{
	"Борщ український з сметаною": 45,
	"Котлета куряча з картоплею":  55,
	"Салат з свіжих овочів":       20,
	"Голубці з м'ясом":            60,
	"Винегрет":                    25,
	"Суп з куркою та локшиною":    40,
	"Риба запечена з овочами":     65,
	"Салат з огірків":             15,
	"Гречана каша з м'ясом":       35,
	"Компот з сухофруктів":        10,
	"Хліб житній":                 5,
}

func Legacy() Strategy {
	return StrategyFunc(func(_ calendar.Date, name string) (decimal.Decimal, bool) {
		p, ok := legacyPrices[name]
		if !ok {
			return decimal.Zero, false
		}
		return decimal.NewFromInt(p), true
	})
}

// Fixed prices dishes from a static map, regardless of date.
func Fixed(prices map[string]decimal.Decimal) Strategy {
	return StrategyFunc(func(_ calendar.Date, name string) (decimal.Decimal, bool) {
		p, ok := prices[name]
		return p, ok
	})
}
