// Package seed loads the demo catalog and a demo cashier. Running it twice is
// harmless: rows are matched by category name, product SKU and profile email,
// and stock on hand is only set when a product is first created.
package seed

import (
	"context"
	"fmt"

	"github.com/saadmalik-333/business-insight-pos/internal/model"

	"github.com/shopspring/decimal"
)

type CategoryUpserter interface {
	Upsert(ctx context.Context, c *model.Category) error
}

type ProductUpserter interface {
	UpsertBySKU(ctx context.Context, p *model.Product) error
}

type ProfileUpserter interface {
	Upsert(ctx context.Context, p *model.Profile) error
}

type DemoProduct struct {
	Name        string
	Description string
	SKU         string
	Category    string
	Price       string
	Cost        string
	Stock       int
	MinStock    int
}

var DemoCategories = []struct{ Name, Description string }{
	{"Burgers", "Grilled burgers and sandwiches"},
	{"Sides", "Fries, rings and other sides"},
	{"Drinks", "Soft drinks and shakes"},
}

var DemoProducts = []DemoProduct{
	{"Classic Burger", "Beef patty, lettuce, tomato, house sauce", "BRG001", "Burgers", "12.99", "6.50", 15, 10},
	{"Crispy Fries", "Golden crispy french fries", "SID001", "Sides", "4.99", "2.25", 5, 15},
	{"Cola", "Refreshing cola drink", "DRK001", "Drinks", "2.99", "0.75", 25, 20},
	{"Chicken Sandwich", "Grilled chicken breast sandwich", "BRG002", "Burgers", "10.99", "5.25", 3, 8},
	{"Milkshake", "Vanilla milkshake", "DRK002", "Drinks", "5.99", "2.50", 18, 12},
	{"Onion Rings", "Crispy battered onion rings", "SID002", "Sides", "3.99", "1.75", 22, 15},
}

const (
	DemoCashierEmail = "cashier@example.com"
	DemoAdminEmail   = "admin@example.com"
)

// Result reports what the seed touched.
type Result struct {
	Categories int
	Products   int
	Profiles   []model.Profile
}

func Run(ctx context.Context, categories CategoryUpserter, products ProductUpserter, profiles ProfileUpserter) (*Result, error) {
	res := &Result{}

	byName := make(map[string]*model.Category, len(DemoCategories))
	for _, dc := range DemoCategories {
		desc := dc.Description
		c := &model.Category{Name: dc.Name, Description: &desc}
		if err := categories.Upsert(ctx, c); err != nil {
			return nil, fmt.Errorf("seed category %s: %w", dc.Name, err)
		}
		byName[dc.Name] = c
		res.Categories++
	}

	for _, dp := range DemoProducts {
		p, err := dp.toModel(byName)
		if err != nil {
			return nil, err
		}
		if err := products.UpsertBySKU(ctx, p); err != nil {
			return nil, fmt.Errorf("seed product %s: %w", dp.SKU, err)
		}
		res.Products++
	}

	for _, dp := range []struct{ email, name, role string }{
		{DemoCashierEmail, "Demo Cashier", model.RoleCashier},
		{DemoAdminEmail, "Demo Admin", model.RoleAdmin},
	} {
		name := dp.name
		p := &model.Profile{Email: dp.email, FullName: &name, Role: dp.role}
		if err := profiles.Upsert(ctx, p); err != nil {
			return nil, fmt.Errorf("seed profile %s: %w", dp.email, err)
		}
		res.Profiles = append(res.Profiles, *p)
	}
	return res, nil
}

func (dp DemoProduct) toModel(categories map[string]*model.Category) (*model.Product, error) {
	price, err := decimal.NewFromString(dp.Price)
	if err != nil {
		return nil, fmt.Errorf("seed product %s price: %w", dp.SKU, err)
	}
	cost, err := decimal.NewFromString(dp.Cost)
	if err != nil {
		return nil, fmt.Errorf("seed product %s cost: %w", dp.SKU, err)
	}
	desc := dp.Description
	p := &model.Product{
		Name:          dp.Name,
		Description:   &desc,
		SKU:           dp.SKU,
		Price:         price,
		Cost:          cost,
		StockQuantity: dp.Stock,
		MinStockLevel: dp.MinStock,
		IsActive:      true,
	}
	if c, ok := categories[dp.Category]; ok {
		id := c.ID
		p.CategoryID = &id
	}
	return p, nil
}
