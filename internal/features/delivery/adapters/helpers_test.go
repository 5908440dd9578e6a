package adapters

import (
	"fmt"
	"strings"
	"testing"

	"smart-dispatch/internal/core/cache"
	"smart-dispatch/internal/features/delivery/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func newTestCache(t *testing.T) (*miniredis.Miniredis, *cache.RedisAdapter) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

var (
	pickupAddr  = domain.Address{Street: "100 Main St", City: "Austin", State: "TX", ZipCode: "78701"}
	dropoffAddr = domain.Address{Street: "200 Oak Ave", City: "Austin", State: "TX", ZipCode: "78702"}
)

func deliveryRequest(orderID string) domain.CreateDeliveryRequest {
	pickup := pickupAddr
	dropoff := dropoffAddr
	tip := domain.MoneyFromFloat(3)
	value := domain.MoneyFromFloat(42.5)
	return domain.CreateDeliveryRequest{
		OrderID:             orderID,
		PickupAddress:       &pickup,
		DropoffAddress:      &dropoff,
		PickupPhone:         "+15125550100",
		DropoffName:         "Ada King Lovelace",
		DropoffPhone:        "+15125550199",
		DropoffInstructions: "Leave at door",
		OrderValue:          &value,
		Tip:                 &tip,
	}
}
