// Package menu is the fixed Origen Burger catalog.
package menu

import (
	"fmt"

	"ghost-kitchen/internal/domain"
)

var items = []domain.MenuItem{
	{
		ID:          "h1",
		Name:        "La Clásica",
		Category:    domain.CategoryBurgers,
		Description: "Pan brioche, carne artesanal x2 120g, queso mozzarella, chorizo artesanal, salsa origen y cebolla caramelizada.",
		Price:       12000,
		ImageURL:    "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?auto=format&fit=crop&w=500&q=80",
	},
	{
		ID:          "h2",
		Name:        "De la casa",
		Category:    domain.CategoryBurgers,
		Description: "Pan brioche, carne artesanal x2 120g, tocineta, queso cheddar, salsa origen y cebolla krispy.",
		Price:       15000,
		ImageURL:    "https://images.unsplash.com/photo-1594212699903-ec8a3eca50f5?auto=format&fit=crop&w=500&q=80",
	},
	{
		ID:          "h3",
		Name:        "Edición Limitada",
		Category:    domain.CategoryBurgers,
		Description: "Pan brioche, carne artesanal x2 120g, queso cheddar, maduro, queso frito, pechuga, salsa origen y cebolla caramelizada.",
		Price:       20000,
		ImageURL:    "https://images.unsplash.com/photo-1571091718767-18b5b1457add?auto=format&fit=crop&w=500&q=80",
	},
	{
		ID:          "p1",
		Name:        "Que papas",
		Category:    domain.CategoryFries,
		Description: "Porción clásica de papas a la francesa, crocantes y con el toque de sal Origen.",
		Price:       6000,
		ImageURL:    "https://images.unsplash.com/photo-1573080496219-bb080dd4f877?auto=format&fit=crop&w=500&q=80",
		Vegetarian:  true,
	},
	{
		ID:          "p2",
		Name:        "Mr Papitas",
		Category:    domain.CategoryFries,
		Description: "Papas rústicas con especias de la casa y un dip de salsa origen.",
		Price:       8500,
		ImageURL:    "https://images.unsplash.com/photo-1630384060421-cb20d0e0649d?auto=format&fit=crop&w=500&q=80",
		Vegetarian:  true,
	},
	{
		ID:          "p3",
		Name:        "Papa Box",
		Category:    domain.CategoryFries,
		Description: "Caja familiar de papas mixtas con trozos de tocineta y queso fundido.",
		Price:       13000,
		ImageURL:    "https://images.unsplash.com/photo-1585109649139-366815a0d713?auto=format&fit=crop&w=500&q=80",
	},
	{
		ID:          "b1",
		Name:        "Gaseosa Postobón / Pepsi",
		Category:    domain.CategoryDrinks,
		Description: "Selecciona tu sabor favorito: Uva, Manzana, Pepsi o Colombiana. Refrescantes y heladas.",
		Price:       1500,
		ImageURL:    "https://raw.githubusercontent.com/stackblitz/stackblitz-images/main/postobon-drinks.png",
		Vegetarian:  true,
	},
}

// All returns a copy of the whole catalog in display order.
func All() []domain.MenuItem {
	return append([]domain.MenuItem(nil), items...)
}

func ByCategory(c domain.Category) ([]domain.MenuItem, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, c)
	}
	var out []domain.MenuItem
	for _, it := range items {
		if it.Category == c {
			out = append(out, it)
		}
	}
	return out, nil
}

func Find(id string) (domain.MenuItem, error) {
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return domain.MenuItem{}, fmt.Errorf("menu item %q: %w", id, domain.ErrNotFound)
}
