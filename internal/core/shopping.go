package core

import (
	"sort"
	"strconv"
	"strings"

	"sanctuary/pkg/domain"
)

// ShoppingList maps each favorite food to the grams needed per day.
type ShoppingList map[domain.Food]int

// ShoppingList totals the daily rations of every registered animal, wherever
// it is housed. Animals without a ration add nothing.
func (s *Service) ShoppingList() ShoppingList {
	list := make(ShoppingList)
	for _, rec := range s.registry {
		if grams := rec.DailyRation(); grams > 0 {
			list[rec.FavoriteFood()] += grams
		}
	}
	return list
}

// Foods returns the foods on the list in name order.
func (l ShoppingList) Foods() []domain.Food {
	foods := make([]domain.Food, 0, len(l))
	for food := range l {
		foods = append(foods, food)
	}
	sort.Slice(foods, func(i, j int) bool { return foods[i] < foods[j] })
	return foods
}

// Total returns the grams of food needed per day across all foods.
func (l ShoppingList) Total() int {
	total := 0
	for _, grams := range l {
		total += grams
	}
	return total
}

func (l ShoppingList) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, food := range l.Foods() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(food.String())
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(l[food]))
	}
	b.WriteByte('}')
	return b.String()
}
