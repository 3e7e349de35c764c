package services

import (
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"shopez/internal/models"
)

// ProductService serves the static catalog seeded at startup.
type ProductService struct {
	mu       sync.RWMutex
	products map[int]models.Product
}

func NewProductService() *ProductService {
	return &ProductService{
		products: make(map[int]models.Product),
	}
}

func (s *ProductService) InitSampleData() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range []models.Product{
		{ID: 1, Name: "Laptop", Price: decimal.RequireFromString("999.99"), Image: "/images/laptop.jpg?height=200&width=300"},
		{ID: 2, Name: "Smartphone", Price: decimal.RequireFromString("499.99"), Image: "/images/smartphone.jpg?height=200&width=300"},
		{ID: 3, Name: "Headphones", Price: decimal.RequireFromString("99.99"), Image: "/images/headphones.jpg?height=200&width=300"},
	} {
		s.products[p.ID] = p
	}
}

// GetAllProducts returns the catalog ordered by id.
func (s *ProductService) GetAllProducts() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products
}

func (s *ProductService) GetProductByID(id int) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, exists := s.products[id]
	return product, exists
}

// SearchProducts does a case-insensitive name match; an empty query
// returns everything.
func (s *ProductService) SearchProducts(query string) []models.Product {
	all := s.GetAllProducts()
	if query == "" {
		return all
	}

	q := strings.ToLower(query)
	results := make([]models.Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), q) {
			results = append(results, p)
		}
	}
	return results
}
