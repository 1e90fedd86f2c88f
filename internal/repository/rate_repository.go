package repository

import (
	"context"
	"time"

	"hotel-booking-engine/internal/model"
	apperrors "hotel-booking-engine/pkg/app_errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RateRepository Rate Store：每房型每日的價格與庫存。
// DecrementStock / IncrementStock 是單列原子 read-modify-write，
// sale_status 在同一條 UPDATE 內重算，stop_sell 永不自動降級。
type RateRepository interface {
	ListRange(ctx context.Context, roomID int, from, to time.Time) ([]*model.RoomRate, error)
	ListByHotelRange(ctx context.Context, hotelID int, from, to time.Time) ([]*model.RoomRate, error)

	// Transaction methods
	ListRangeForUpdate(ctx context.Context, roomID int, from, to time.Time) ([]*model.RoomRate, error)
	EnsureRow(ctx context.Context, roomID int, date time.Time, stock int) error
	DecrementStock(ctx context.Context, roomID int, date time.Time, quantity int) error
	IncrementStock(ctx context.Context, roomID int, date time.Time, quantity, capacity int) error
}

type RateRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRateRepository(pool *pgxpool.Pool) RateRepository {
	return &RateRepositoryImpl{pool: pool}
}

const rateColumns = `id, room_id, date, price_room_only, price_package,
		stock, booked, sale_status, min_stay, created_at, updated_at`

func scanRate(row interface{ Scan(dest ...any) error }, rate *model.RoomRate) error {
	return row.Scan(
		&rate.ID,
		&rate.RoomID,
		&rate.Date,
		&rate.PriceRoomOnly,
		&rate.PricePackage,
		&rate.Stock,
		&rate.Booked,
		&rate.SaleStatus,
		&rate.MinStay,
		&rate.CreatedAt,
		&rate.UpdatedAt,
	)
}

func (r *RateRepositoryImpl) ListRange(ctx context.Context, roomID int, from, to time.Time) ([]*model.RoomRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM room_rates
		WHERE room_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
	`
	return r.queryRates(ctx, query, roomID, from, to)
}

// ListRangeForUpdate 鎖住範圍內既有列，訂房交易中使用
func (r *RateRepositoryImpl) ListRangeForUpdate(ctx context.Context, roomID int, from, to time.Time) ([]*model.RoomRate, error) {
	query := `
		SELECT ` + rateColumns + `
		FROM room_rates
		WHERE room_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
		FOR UPDATE
	`
	return r.queryRates(ctx, query, roomID, from, to)
}

func (r *RateRepositoryImpl) ListByHotelRange(ctx context.Context, hotelID int, from, to time.Time) ([]*model.RoomRate, error) {
	query := `
		SELECT rr.id, rr.room_id, rr.date, rr.price_room_only, rr.price_package,
		       rr.stock, rr.booked, rr.sale_status, rr.min_stay, rr.created_at, rr.updated_at
		FROM room_rates rr
		JOIN rooms ro ON ro.id = rr.room_id
		WHERE ro.hotel_id = $1 AND ro.deleted_at IS NULL
		  AND rr.date >= $2 AND rr.date < $3
		ORDER BY rr.date, rr.room_id
	`
	return r.queryRates(ctx, query, hotelID, from, to)
}

func (r *RateRepositoryImpl) queryRates(ctx context.Context, query string, args ...any) ([]*model.RoomRate, error) {
	rows, err := querier(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rates := make([]*model.RoomRate, 0)

	for rows.Next() {
		var rate model.RoomRate
		if err := scanRate(rows, &rate); err != nil {
			return nil, err
		}
		rates = append(rates, &rate)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rates, nil
}

// EnsureRow 補齊未定價日期的庫存列，讓扣減可以走同一條路徑。
// stock 為房型總間數（尚未限制的預設值），已有列時不動。
func (r *RateRepositoryImpl) EnsureRow(ctx context.Context, roomID int, date time.Time, stock int) error {
	query := `
		INSERT INTO room_rates (room_id, date, price_room_only, price_package, stock, booked, sale_status, min_stay)
		VALUES ($1, $2, 0, 0, $3, 0, 'available', 1)
		ON CONFLICT (room_id, date) DO NOTHING
	`

	_, err := querier(ctx, r.pool).Exec(ctx, query, roomID, date, stock)
	return err
}

func (r *RateRepositoryImpl) DecrementStock(ctx context.Context, roomID int, date time.Time, quantity int) error {
	if quantity <= 0 {
		return apperrors.ErrInvalidInput
	}

	query := `
		UPDATE room_rates
		SET stock = stock - $1,
			booked = booked + $1,
			sale_status = CASE
				WHEN sale_status = 'stop_sell' THEN 'stop_sell'
				WHEN stock - $1 <= 0 THEN 'sold_out'
				WHEN stock - $1 <= $2 THEN 'limited'
				ELSE sale_status
			END,
			updated_at = $3
		WHERE room_id = $4 AND date = $5
		  AND stock >= $1
		  AND sale_status NOT IN ('sold_out', 'stop_sell')
	`

	result, err := querier(ctx, r.pool).Exec(ctx, query,
		quantity, model.LowStockThreshold, time.Now().UTC(), roomID, date)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInsufficientStock
	}

	return nil
}

// IncrementStock 取消時釋放庫存，上限為房型總間數
func (r *RateRepositoryImpl) IncrementStock(ctx context.Context, roomID int, date time.Time, quantity, capacity int) error {
	if quantity <= 0 {
		return apperrors.ErrInvalidInput
	}

	query := `
		UPDATE room_rates
		SET stock = LEAST(stock + $1, $2),
			booked = GREATEST(booked - $1, 0),
			sale_status = CASE
				WHEN sale_status = 'stop_sell' THEN 'stop_sell'
				WHEN LEAST(stock + $1, $2) <= 0 THEN 'sold_out'
				WHEN LEAST(stock + $1, $2) <= $3 THEN 'limited'
				ELSE 'available'
			END,
			updated_at = $4
		WHERE room_id = $5 AND date = $6
	`

	// 列不存在時無庫存可釋放，不視為錯誤
	_, err := querier(ctx, r.pool).Exec(ctx, query,
		quantity, capacity, model.LowStockThreshold, time.Now().UTC(), roomID, date)
	return err
}
