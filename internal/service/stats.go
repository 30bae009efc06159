package service

import (
	"context"
	"math"
	"sort"

	"github.com/spec-kit/catalog-admin/internal/domain"
)

const (
	chartTopN        = 10
	chartNameMaxRune = 15
)

// SalesPoint is one bar of the top-sales chart.
type SalesPoint struct {
	Name  string `json:"name"`
	Sales int    `json:"sales"`
}

// StockPoint is one bar of the top-stock chart.
type StockPoint struct {
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// CategoryPoint is one slice of a per-category chart.
type CategoryPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Stats is the dashboard chart data.
type Stats struct {
	Sales         []SalesPoint    `json:"sales"`
	Stock         []StockPoint    `json:"stock"`
	Categories    []CategoryPoint `json:"categories"`
	CategoryValue []CategoryPoint `json:"categoryValue"`
}

// Stats aggregates chart data over the whole catalog.
func (s *ProductService) Stats(ctx context.Context) (*Stats, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildStats(products), nil
}

// BuildStats computes chart data. Ties keep the input order; categories keep first-seen order.
func BuildStats(products []domain.Product) *Stats {
	stats := &Stats{
		Sales:         make([]SalesPoint, 0, len(products)),
		Stock:         make([]StockPoint, 0, len(products)),
		Categories:    []CategoryPoint{},
		CategoryValue: []CategoryPoint{},
	}

	countIdx := map[string]int{}
	for _, p := range products {
		name := chartName(p.Name)
		stats.Sales = append(stats.Sales, SalesPoint{Name: name, Sales: p.Sales})
		stats.Stock = append(stats.Stock, StockPoint{Name: name, Stock: p.Stock})

		idx, ok := countIdx[p.Category]
		if !ok {
			idx = len(stats.Categories)
			countIdx[p.Category] = idx
			stats.Categories = append(stats.Categories, CategoryPoint{Name: p.Category})
			stats.CategoryValue = append(stats.CategoryValue, CategoryPoint{Name: p.Category})
		}
		stats.Categories[idx].Value++
		stats.CategoryValue[idx].Value += p.Price * float64(p.Stock)
	}

	sort.SliceStable(stats.Sales, func(i, j int) bool { return stats.Sales[i].Sales > stats.Sales[j].Sales })
	sort.SliceStable(stats.Stock, func(i, j int) bool { return stats.Stock[i].Stock > stats.Stock[j].Stock })
	if len(stats.Sales) > chartTopN {
		stats.Sales = stats.Sales[:chartTopN]
	}
	if len(stats.Stock) > chartTopN {
		stats.Stock = stats.Stock[:chartTopN]
	}
	for i := range stats.CategoryValue {
		stats.CategoryValue[i].Value = math.Round(stats.CategoryValue[i].Value)
	}
	return stats
}

func chartName(name string) string {
	runes := []rune(name)
	if len(runes) <= chartNameMaxRune {
		return name
	}
	return string(runes[:chartNameMaxRune]) + "..."
}
