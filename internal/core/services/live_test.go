// internal/core/services/live_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/lavka-be/internal/core/domain"
	"github.com/ammerola/lavka-be/internal/core/ports"
	"github.com/ammerola/lavka-be/internal/core/services"
	"github.com/ammerola/lavka-be/test/helpers"
	"github.com/ammerola/lavka-be/test/mocks"
)

func newLiveService(t *testing.T) (*services.LiveService, *mocks.MockProductRepository, *mocks.MockHistoryRepository, *mocks.MockNotifier) {
	t.Helper()
	ctrl := gomock.NewController(t)
	products := mocks.NewMockProductRepository(ctrl)
	history := mocks.NewMockHistoryRepository(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)
	svc := services.NewLiveService(products, history, notifier, helpers.TestLogger())
	return svc, products, history, notifier
}

func TestLiveService_Snapshot(t *testing.T) {
	const userID = "user-123"

	t.Run("products", func(t *testing.T) {
		svc, products, _, _ := newLiveService(t)
		item := helpers.CreateTestProduct()
		products.EXPECT().
			FindAll(gomock.Any(), userID, ports.ProductQuery{}).
			Return(&ports.ProductPage{Items: []*domain.Product{item}, TotalCount: 1}, nil)

		snapshot, err := svc.Snapshot(context.Background(), userID, ports.CollectionProducts)
		require.NoError(t, err)
		items, ok := snapshot.([]*domain.Product)
		require.True(t, ok)
		require.Len(t, items, 1)
		assert.Equal(t, item.ID, items[0].ID)
	})

	t.Run("ledger", func(t *testing.T) {
		svc, _, history, _ := newLiveService(t)
		entry := helpers.CreateTestLedgerEntry()
		history.EXPECT().
			ListLedger(gomock.Any(), userID, 0).
			Return([]*domain.LedgerEntry{entry}, nil)

		snapshot, err := svc.Snapshot(context.Background(), userID, ports.CollectionLedger)
		require.NoError(t, err)
		entries, ok := snapshot.([]*domain.LedgerEntry)
		require.True(t, ok)
		require.Len(t, entries, 1)
	})

	t.Run("unknown_collection", func(t *testing.T) {
		svc, _, _, _ := newLiveService(t)
		_, err := svc.Snapshot(context.Background(), userID, "settings")
		require.Error(t, err)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("missing_user", func(t *testing.T) {
		svc, _, _, _ := newLiveService(t)
		_, err := svc.Snapshot(context.Background(), "", ports.CollectionProducts)
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
}

func receiveSnapshot(t *testing.T, out <-chan interface{}) interface{} {
	t.Helper()
	select {
	case snapshot, ok := <-out:
		require.True(t, ok, "snapshot channel closed unexpectedly")
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestLiveService_Stream(t *testing.T) {
	const userID = "user-123"

	svc, products, _, notifier := newLiveService(t)

	// One read for the initial snapshot and one per change notification.
	// Collection validation is a name check and never touches the repository.
	products.EXPECT().
		FindAll(gomock.Any(), userID, ports.ProductQuery{}).
		Return(&ports.ProductPage{Items: []*domain.Product{helpers.CreateTestProduct()}, TotalCount: 1}, nil).
		Times(2)

	var notify func()
	subStopped := false
	notifier.EXPECT().
		Subscribe(gomock.Any(), userID, ports.CollectionProducts, gomock.Any()).
		DoAndReturn(func(ctx context.Context, uid, collection string, fn func()) (func(), error) {
			notify = fn
			return func() { subStopped = true }, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out, stop, err := svc.Stream(ctx, userID, ports.CollectionProducts)
	require.NoError(t, err)
	require.NotNil(t, notify)

	// Initial snapshot arrives without any notification
	first := receiveSnapshot(t, out)
	assert.NotNil(t, first)

	// A change notification produces a fresh snapshot
	notify()
	second := receiveSnapshot(t, out)
	assert.NotNil(t, second)

	stop()
	assert.True(t, subStopped)

	select {
	case _, ok := <-out:
		assert.False(t, ok, "channel should close after stop")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}

	// stop is idempotent
	stop()
}

func TestLiveService_Stream_InvalidCollection(t *testing.T) {
	svc, _, _, _ := newLiveService(t)

	_, _, err := svc.Stream(context.Background(), "user-123", "nope")
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestLiveService_Stream_SubscribeFailure(t *testing.T) {
	const userID = "user-123"

	svc, _, _, notifier := newLiveService(t)
	notifier.EXPECT().
		Subscribe(gomock.Any(), userID, ports.CollectionProducts, gomock.Any()).
		Return(nil, errors.New("redis down"))

	_, _, err := svc.Stream(context.Background(), userID, ports.CollectionProducts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to subscribe")
}
