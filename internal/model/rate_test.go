package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveSaleStatus(t *testing.T) {
	t.Run("庫存歸零變為 sold_out", func(t *testing.T) {
		assert.Equal(t, SaleSoldOut, DeriveSaleStatus(SaleAvailable, 0))
		assert.Equal(t, SaleSoldOut, DeriveSaleStatus(SaleLimited, -1))
	})

	t.Run("低庫存變為 limited", func(t *testing.T) {
		assert.Equal(t, SaleLimited, DeriveSaleStatus(SaleAvailable, LowStockThreshold))
		assert.Equal(t, SaleLimited, DeriveSaleStatus(SaleAvailable, 1))
	})

	t.Run("庫存充足回到 available", func(t *testing.T) {
		assert.Equal(t, SaleAvailable, DeriveSaleStatus(SaleLimited, LowStockThreshold+1))
	})

	t.Run("stop_sell 不會被自動降級", func(t *testing.T) {
		assert.Equal(t, SaleStopSell, DeriveSaleStatus(SaleStopSell, 0))
		assert.Equal(t, SaleStopSell, DeriveSaleStatus(SaleStopSell, 100))
	})
}

func TestSaleStatusBookable(t *testing.T) {
	assert.True(t, SaleAvailable.Bookable())
	assert.True(t, SaleLimited.Bookable())
	assert.False(t, SaleSoldOut.Bookable())
	assert.False(t, SaleStopSell.Bookable())
}

func TestRoomRatePriceFor(t *testing.T) {
	rate := &RoomRate{PriceRoomOnly: 1_000_000, PricePackage: 1_200_000}

	t.Run("combo 且有套裝價時用套裝價", func(t *testing.T) {
		assert.Equal(t, int64(1_200_000), rate.PriceFor(PackageCombo))
	})

	t.Run("room_only 一律用純住房價", func(t *testing.T) {
		assert.Equal(t, int64(1_000_000), rate.PriceFor(PackageRoomOnly))
	})

	t.Run("combo 但沒有套裝價時退回純住房價", func(t *testing.T) {
		noPackage := &RoomRate{PriceRoomOnly: 1_000_000, PricePackage: 0}
		assert.Equal(t, int64(1_000_000), noPackage.PriceFor(PackageCombo))
	})
}
