//go:build integration
// +build integration

// internal/core/services/stock_integration_test.go
package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/ammerola/lavka-be/internal/adapters/db"
	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
	"github.com/ammerola/lavka-be/internal/core/services"
	"github.com/ammerola/lavka-be/test/helpers"
)

const stockTestUser = "it-user-1"

type StockServiceSuite struct {
	suite.Suite
	testDB   *helpers.TestDB
	stock    *services.StockService
	products ports.ProductRepository
	history  ports.HistoryRepository
	ctx      context.Context
}

func (s *StockServiceSuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	logger := helpers.TestLogger()
	s.products = db.NewProductRepository(s.testDB.Database, logger)
	s.history = db.NewHistoryRepository(s.testDB.Database, logger)
	s.stock = services.NewStockService(s.testDB.Database, s.products, nil, logger)
	s.ctx = context.Background()
}

func (s *StockServiceSuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
}

func (s *StockServiceSuite) seedProduct(overrides ...func(*domain.Product)) *domain.Product {
	p := helpers.CreateTestProduct(overrides...)
	s.Require().NoError(s.products.Save(s.ctx, stockTestUser, p))
	return p
}

func (s *StockServiceSuite) TestCheckout() {
	a := s.seedProduct(func(p *domain.Product) {
		p.SKU = "IT-A"
		p.Quantity = 10
		p.Price = decimal.NewFromInt(200)
	})
	b := s.seedProduct(func(p *domain.Product) {
		p.SKU = "IT-B"
		p.Quantity = 4
		p.Price = decimal.RequireFromString("149.50")
	})

	invoice, err := s.stock.Checkout(s.ctx, stockTestUser, []domain.CartLine{
		{ProductID: a.ID, Quantity: 3},
		{ProductID: b.ID, Quantity: 1},
	})
	s.Require().NoError(err)
	s.Require().NotNil(invoice)
	s.Len(invoice.Items, 2)
	s.True(invoice.Total.Equal(decimal.RequireFromString("749.50")),
		"expected 749.50, got %s", invoice.Total)

	// Stock is decremented
	savedA, err := s.products.FindByID(s.ctx, stockTestUser, a.ID)
	s.Require().NoError(err)
	s.Equal(7, savedA.Quantity)

	savedB, err := s.products.FindByID(s.ctx, stockTestUser, b.ID)
	s.Require().NoError(err)
	s.Equal(3, savedB.Quantity)

	// The invoice is persisted
	saved, err := s.history.FindInvoiceByID(s.ctx, stockTestUser, invoice.ID)
	s.Require().NoError(err)
	s.Len(saved.Items, 2)
	s.True(saved.Total.Equal(invoice.Total))

	// Each cart line produced exactly one paired ledger entry
	entries, err := s.history.ListLedger(s.ctx, stockTestUser, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	byProduct := make(map[uuid.UUID]*domain.LedgerEntry, len(entries))
	for _, e := range entries {
		s.Equal(domain.EntryInvoice, e.Type)
		s.True(e.Consistent(), "entry %s breaks after = before + change", e.ID)
		byProduct[e.ProductID] = e
	}
	s.Equal(-3, byProduct[a.ID].QuantityChange)
	s.Equal(10, byProduct[a.ID].BeforeQuantity)
	s.Equal(7, byProduct[a.ID].AfterQuantity)
	s.Equal(-1, byProduct[b.ID].QuantityChange)
}

func (s *StockServiceSuite) TestCheckout_InsufficientStockAbortsWholeCart() {
	ok := s.seedProduct(func(p *domain.Product) {
		p.SKU = "IT-OK"
		p.Quantity = 10
	})
	scarce := s.seedProduct(func(p *domain.Product) {
		p.SKU = "IT-SCARCE"
		p.Quantity = 1
	})

	_, err := s.stock.Checkout(s.ctx, stockTestUser, []domain.CartLine{
		{ProductID: ok.ID, Quantity: 2},
		{ProductID: scarce.ID, Quantity: 5},
	})
	s.Require().Error(err)
	s.True(domain.IsInsufficientStock(err))

	// No line was applied, not even the satisfiable one
	savedOK, err := s.products.FindByID(s.ctx, stockTestUser, ok.ID)
	s.Require().NoError(err)
	s.Equal(10, savedOK.Quantity)

	entries, err := s.history.ListLedger(s.ctx, stockTestUser, 0)
	s.Require().NoError(err)
	s.Empty(entries)

	invoices, err := s.history.ListInvoices(s.ctx, stockTestUser, 0)
	s.Require().NoError(err)
	s.Empty(invoices)
}

func (s *StockServiceSuite) TestCheckout_UnknownProductAborts() {
	ok := s.seedProduct()

	_, err := s.stock.Checkout(s.ctx, stockTestUser, []domain.CartLine{
		{ProductID: ok.ID, Quantity: 1},
		{ProductID: uuid.New(), Quantity: 1},
	})
	s.Require().Error(err)
	s.True(domain.IsNotFound(err))

	saved, err := s.products.FindByID(s.ctx, stockTestUser, ok.ID)
	s.Require().NoError(err)
	s.Equal(10, saved.Quantity)
}

func (s *StockServiceSuite) TestCheckout_UserIsolation() {
	mine := s.seedProduct()

	// Another user cannot sell this product
	_, err := s.stock.Checkout(s.ctx, "someone-else", []domain.CartLine{
		{ProductID: mine.ID, Quantity: 1},
	})
	s.Require().Error(err)
	s.True(domain.IsNotFound(err))
}

func (s *StockServiceSuite) TestReceive() {
	p := s.seedProduct(func(p *domain.Product) { p.Quantity = 3 })

	receipt, err := s.stock.Receive(s.ctx, stockTestUser, []domain.ReceiptLine{
		{ProductID: p.ID, Quantity: 12},
	})
	s.Require().NoError(err)
	s.Require().Len(receipt.Items, 1)
	s.Equal(12, receipt.Items[0].QuantityAdded)
	s.Equal(15, receipt.Items[0].NewQuantity)

	saved, err := s.products.FindByID(s.ctx, stockTestUser, p.ID)
	s.Require().NoError(err)
	s.Equal(15, saved.Quantity)

	entries, err := s.history.ListLedger(s.ctx, stockTestUser, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(domain.EntryReceipt, entries[0].Type)
	s.Equal(12, entries[0].QuantityChange)
	s.Equal(3, entries[0].BeforeQuantity)
	s.Equal(15, entries[0].AfterQuantity)

	receipts, err := s.history.ListReceipts(s.ctx, stockTestUser, 0)
	s.Require().NoError(err)
	s.Len(receipts, 1)
}

func (s *StockServiceSuite) TestUpdateProduct_QuantityEditWritesLedger() {
	p := s.seedProduct(func(p *domain.Product) { p.Quantity = 10 })

	newQty := 6
	updated, err := s.stock.UpdateProduct(s.ctx, stockTestUser, p.ID, domain.ProductPatch{
		Quantity: &newQty,
	})
	s.Require().NoError(err)
	s.Equal(6, updated.Quantity)

	entries, err := s.history.ListLedgerForProduct(s.ctx, stockTestUser, p.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(domain.EntryEdit, entries[0].Type)
	s.Equal(-4, entries[0].QuantityChange)
	s.Equal(10, entries[0].BeforeQuantity)
	s.Equal(6, entries[0].AfterQuantity)
}

func (s *StockServiceSuite) TestUpdateProduct_MetadataEditSkipsLedger() {
	p := s.seedProduct()

	name := "Renamed plush"
	price := decimal.RequireFromString("99.90")
	updated, err := s.stock.UpdateProduct(s.ctx, stockTestUser, p.ID, domain.ProductPatch{
		Name:  &name,
		Price: &price,
	})
	s.Require().NoError(err)
	s.Equal(name, updated.Name)
	s.True(updated.Price.Equal(price))
	s.Equal(p.Quantity, updated.Quantity)

	entries, err := s.history.ListLedger(s.ctx, stockTestUser, 0)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *StockServiceSuite) TestUpdateProduct_SameQuantitySkipsLedger() {
	p := s.seedProduct(func(p *domain.Product) { p.Quantity = 10 })

	sameQty := 10
	_, err := s.stock.UpdateProduct(s.ctx, stockTestUser, p.ID, domain.ProductPatch{
		Quantity: &sameQty,
	})
	s.Require().NoError(err)

	entries, err := s.history.ListLedger(s.ctx, stockTestUser, 0)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *StockServiceSuite) TestDeleteProduct() {
	p := s.seedProduct(func(p *domain.Product) { p.Quantity = 7 })

	s.Require().NoError(s.stock.DeleteProduct(s.ctx, stockTestUser, p.ID))

	_, err := s.products.FindByID(s.ctx, stockTestUser, p.ID)
	s.Require().Error(err)
	s.True(domain.IsNotFound(err))

	// The delete entry zeroes out the remaining stock
	entries, err := s.history.ListLedgerForProduct(s.ctx, stockTestUser, p.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(domain.EntryDelete, entries[0].Type)
	s.Equal(-7, entries[0].QuantityChange)
	s.Equal(7, entries[0].BeforeQuantity)
	s.Equal(0, entries[0].AfterQuantity)
}

func (s *StockServiceSuite) TestDeleteProducts_AllOrNothing() {
	a := s.seedProduct(func(p *domain.Product) { p.SKU = "IT-A" })
	b := s.seedProduct(func(p *domain.Product) { p.SKU = "IT-B" })
	missing := uuid.New()

	result, err := s.stock.DeleteProducts(s.ctx, stockTestUser, []uuid.UUID{a.ID, missing, b.ID})
	s.Require().Error(err)
	s.True(domain.IsNotFound(err))
	s.Require().NotNil(result)
	s.Empty(result.Deleted)
	s.Contains(result.Failed, missing)

	// Nothing was deleted
	for _, id := range []uuid.UUID{a.ID, b.ID} {
		exists, err := s.products.Exists(s.ctx, stockTestUser, id)
		s.Require().NoError(err)
		s.True(exists)
	}

	entries, err := s.history.ListLedger(s.ctx, stockTestUser, 0)
	s.Require().NoError(err)
	s.Empty(entries)
}

func (s *StockServiceSuite) TestDeleteProducts() {
	a := s.seedProduct(func(p *domain.Product) { p.SKU = "IT-A" })
	b := s.seedProduct(func(p *domain.Product) { p.SKU = "IT-B" })

	result, err := s.stock.DeleteProducts(s.ctx, stockTestUser, []uuid.UUID{a.ID, b.ID})
	s.Require().NoError(err)
	s.ElementsMatch([]uuid.UUID{a.ID, b.ID}, result.Deleted)
	s.Empty(result.Failed)

	count, err := s.products.Count(s.ctx, stockTestUser)
	s.Require().NoError(err)
	s.Equal(int64(0), count)

	entries, err := s.history.ListLedger(s.ctx, stockTestUser, 0)
	s.Require().NoError(err)
	s.Len(entries, 2)
}

func (s *StockServiceSuite) TestCheckout_ConcurrentSalesNeverOversell() {
	const (
		initialQuantity = 5
		buyers          = 8
	)

	p := s.seedProduct(func(p *domain.Product) { p.Quantity = initialQuantity })

	// More buyers than stock, one unit each. Conflicting transactions must
	// either retry onto fresh state or abort; stale decrements never commit.
	errs := make(chan error, buyers)
	var wg sync.WaitGroup
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.stock.Checkout(s.ctx, stockTestUser, []domain.CartLine{
				{ProductID: p.ID, Quantity: 1},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if err == nil {
			successes++
			continue
		}
		if !domain.IsInsufficientStock(err) && !errors.Is(err, domain.ErrTransactionConflict) {
			s.Failf("unexpected checkout error", "%v", err)
		}
	}
	s.Require().LessOrEqual(successes, initialQuantity)

	saved, err := s.products.FindByID(s.ctx, stockTestUser, p.ID)
	s.Require().NoError(err)
	s.GreaterOrEqual(saved.Quantity, 0)
	s.Equal(initialQuantity-successes, saved.Quantity)

	// One consistent ledger entry and one invoice per committed sale
	entries, err := s.history.ListLedgerForProduct(s.ctx, stockTestUser, p.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, successes)
	sum := 0
	for _, e := range entries {
		s.Equal(domain.EntryInvoice, e.Type)
		s.True(e.Consistent(), "entry %s breaks after = before + change", e.ID)
		sum += e.QuantityChange
	}
	s.Equal(-successes, sum)

	invoices, err := s.history.ListInvoices(s.ctx, stockTestUser, 0)
	s.Require().NoError(err)
	s.Len(invoices, successes)
}

func (s *StockServiceSuite) TestLedgerConservation() {
	const initialQuantity = 20

	p := s.seedProduct(func(p *domain.Product) { p.Quantity = initialQuantity })

	_, err := s.stock.Checkout(s.ctx, stockTestUser, []domain.CartLine{
		{ProductID: p.ID, Quantity: 3},
	})
	s.Require().NoError(err)

	_, err = s.stock.Receive(s.ctx, stockTestUser, []domain.ReceiptLine{
		{ProductID: p.ID, Quantity: 10},
	})
	s.Require().NoError(err)

	edited := 12
	_, err = s.stock.UpdateProduct(s.ctx, stockTestUser, p.ID, domain.ProductPatch{
		Quantity: &edited,
	})
	s.Require().NoError(err)

	_, err = s.stock.Checkout(s.ctx, stockTestUser, []domain.CartLine{
		{ProductID: p.ID, Quantity: 5},
	})
	s.Require().NoError(err)

	// Current quantity equals the initial quantity plus the sum of all
	// ledger deltas
	sumChanges := func() int {
		entries, err := s.history.ListLedgerForProduct(s.ctx, stockTestUser, p.ID)
		s.Require().NoError(err)
		sum := 0
		for _, e := range entries {
			s.True(e.Consistent(), "entry %s breaks after = before + change", e.ID)
			sum += e.QuantityChange
		}
		return sum
	}

	saved, err := s.products.FindByID(s.ctx, stockTestUser, p.ID)
	s.Require().NoError(err)
	s.Equal(7, saved.Quantity)
	s.Equal(initialQuantity+sumChanges(), saved.Quantity)

	// Deletion zeroes the row out and the books still balance
	s.Require().NoError(s.stock.DeleteProduct(s.ctx, stockTestUser, p.ID))
	s.Equal(0, initialQuantity+sumChanges())
}

func TestStockServiceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(StockServiceSuite))
}
