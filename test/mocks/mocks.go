// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's ports.
// To regenerate mocks, run `make mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/product_repository.go -destination=product_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/history_repository.go -destination=history_repository_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/stock_service.go -destination=stock_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/feed.go -destination=feed_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/kv.go -destination=kv_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/object_store.go -destination=object_store_mock.go -package=mocks
