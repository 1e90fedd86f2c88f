package model

import "time"

// SaleStatus 每晚的銷售狀態
type SaleStatus string

const (
	SaleAvailable SaleStatus = "available"
	SaleLimited   SaleStatus = "limited"
	SaleSoldOut   SaleStatus = "sold_out"
	SaleStopSell  SaleStatus = "stop_sell"
)

// LowStockThreshold 剩餘庫存低於此數量時標記為 limited
const LowStockThreshold = 2

// IsValid 驗證狀態是否有效
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleAvailable, SaleLimited, SaleSoldOut, SaleStopSell:
		return true
	}
	return false
}

// Bookable 該狀態下是否接受新預訂
func (s SaleStatus) Bookable() bool {
	return s == SaleAvailable || s == SaleLimited
}

// DeriveSaleStatus 依庫存重新計算銷售狀態；stop_sell 由營運人員設定，不會自動降級
func DeriveSaleStatus(current SaleStatus, stock int) SaleStatus {
	if current == SaleStopSell {
		return SaleStopSell
	}
	switch {
	case stock <= 0:
		return SaleSoldOut
	case stock <= LowStockThreshold:
		return SaleLimited
	default:
		return SaleAvailable
	}
}

// RoomRate 房型每日價格與庫存（Rate Store 的一列）
type RoomRate struct {
	ID            int        `json:"id" db:"id"`
	RoomID        int        `json:"room_id" db:"room_id"`
	Date          time.Time  `json:"date" db:"date"`
	PriceRoomOnly int64      `json:"price_room_only" db:"price_room_only"`
	PricePackage  int64      `json:"price_package" db:"price_package"`
	Stock         int        `json:"stock" db:"stock"`
	Booked        int        `json:"booked" db:"booked"`
	SaleStatus    SaleStatus `json:"sale_status" db:"sale_status"`
	MinStay       int        `json:"min_stay" db:"min_stay"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// PriceFor 依方案選擇價格欄位：combo 且有套裝價時用套裝價，否則用純住房價
func (r *RoomRate) PriceFor(pkg PackageType) int64 {
	if pkg == PackageCombo && r.PricePackage > 0 {
		return r.PricePackage
	}
	return r.PriceRoomOnly
}
