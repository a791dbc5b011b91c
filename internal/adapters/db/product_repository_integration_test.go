//go:build integration
// +build integration

// internal/adapters/db/product_repository_integration_test.go
package db_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/ammerola/lavka-be/internal/adapters/db"
	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
	"github.com/ammerola/lavka-be/test/helpers"
)

const repoTestUser = "it-repo-user"

type ProductRepositorySuite struct {
	suite.Suite
	testDB   *helpers.TestDB
	products ports.ProductRepository
	ctx      context.Context
}

func (s *ProductRepositorySuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.products = db.NewProductRepository(s.testDB.Database, helpers.TestLogger())
	s.ctx = context.Background()
}

func (s *ProductRepositorySuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *ProductRepositorySuite) seedProduct(overrides ...func(*domain.Product)) *domain.Product {
	p := helpers.CreateTestProduct(overrides...)
	s.Require().NoError(s.products.Save(s.ctx, repoTestUser, p))
	return p
}

func (s *ProductRepositorySuite) TestFindAll() {
	a := s.seedProduct(func(p *domain.Product) {
		p.SKU = "IT-PLUSH"
		p.Name = "Plush bear"
		p.Category = "plush"
	})
	s.seedProduct(func(p *domain.Product) {
		p.SKU = "IT-BLOCKS"
		p.Name = "Wooden blocks"
		p.Category = "wood"
	})

	page, err := s.products.FindAll(s.ctx, repoTestUser, ports.ProductQuery{})
	s.Require().NoError(err)
	s.Len(page.Items, 2)
	s.Equal(int64(2), page.TotalCount)

	filtered, err := s.products.FindAll(s.ctx, repoTestUser, ports.ProductQuery{Category: "plush"})
	s.Require().NoError(err)
	s.Require().Len(filtered.Items, 1)
	s.Equal(int64(1), filtered.TotalCount)
	s.Equal(a.ID, filtered.Items[0].ID)
}

func (s *ProductRepositorySuite) TestFindAll_EmptyCatalog() {
	page, err := s.products.FindAll(s.ctx, repoTestUser, ports.ProductQuery{})
	s.Require().NoError(err)
	s.Empty(page.Items)
	s.Equal(int64(0), page.TotalCount)
}

func (s *ProductRepositorySuite) TestFindAll_TotalCountIgnoresPagination() {
	for i := 0; i < 5; i++ {
		s.seedProduct(func(p *domain.Product) {
			p.SKU = "IT-PAGE-" + string(rune('A'+i))
		})
	}

	page, err := s.products.FindAll(s.ctx, repoTestUser, ports.ProductQuery{
		SortBy:    "created_at",
		SortOrder: "asc",
		Limit:     2,
		Offset:    2,
	})
	s.Require().NoError(err)
	s.Len(page.Items, 2)
	s.Equal(int64(5), page.TotalCount)
}

func (s *ProductRepositorySuite) TestFindAll_LowStock() {
	s.seedProduct(func(p *domain.Product) {
		p.SKU = "IT-FULL"
		p.Quantity = domain.LowStockThreshold
	})
	low := s.seedProduct(func(p *domain.Product) {
		p.SKU = "IT-LOW"
		p.Quantity = domain.LowStockThreshold - 1
	})

	page, err := s.products.FindAll(s.ctx, repoTestUser, ports.ProductQuery{LowStock: true})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 1)
	s.Equal(int64(1), page.TotalCount)
	s.Equal(low.ID, page.Items[0].ID)
}

func (s *ProductRepositorySuite) TestFindAll_SortByPrice() {
	s.seedProduct(func(p *domain.Product) {
		p.SKU = "IT-CHEAP"
		p.Price = decimal.NewFromInt(10)
	})
	s.seedProduct(func(p *domain.Product) {
		p.SKU = "IT-DEAR"
		p.Price = decimal.NewFromInt(500)
	})

	page, err := s.products.FindAll(s.ctx, repoTestUser, ports.ProductQuery{
		SortBy:    "price",
		SortOrder: "desc",
	})
	s.Require().NoError(err)
	s.Require().Len(page.Items, 2)
	s.Equal("IT-DEAR", page.Items[0].SKU)
}

func (s *ProductRepositorySuite) TestFindAll_UserIsolation() {
	s.seedProduct()

	page, err := s.products.FindAll(s.ctx, "someone-else", ports.ProductQuery{})
	s.Require().NoError(err)
	s.Empty(page.Items)
	s.Equal(int64(0), page.TotalCount)
}

func TestProductRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProductRepositorySuite))
}
