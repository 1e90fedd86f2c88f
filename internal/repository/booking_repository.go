package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hotel-booking-engine/internal/model"
	apperrors "hotel-booking-engine/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) (*model.Booking, error)
	FindByID(ctx context.Context, id int) (*model.Booking, error)
	FindByAccessToken(ctx context.Context, token string) (*model.Booking, error)
	FindByCode(ctx context.Context, code string) (*model.Booking, error)
	ListByRoomID(ctx context.Context, roomID int) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id int, status model.BookingStatus) (*model.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id int, status model.PaymentStatus) error
}

type BookingRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &BookingRepositoryImpl{pool: pool}
}

const bookingColumns = `id, booking_code, access_token, room_id, check_in, check_out,
		room_count, adults, children, children_ages, package_type,
		guest_name, guest_phone, guest_email, coupon_code, snapshot,
		status, payment_status, created_at, updated_at, deleted_at`

func scanBooking(row interface{ Scan(dest ...any) error }) (*model.Booking, error) {
	var booking model.Booking
	var ages []int32
	var snapshotJSON []byte

	err := row.Scan(
		&booking.ID,
		&booking.BookingCode,
		&booking.AccessToken,
		&booking.RoomID,
		&booking.CheckIn,
		&booking.CheckOut,
		&booking.RoomCount,
		&booking.Adults,
		&booking.Children,
		&ages,
		&booking.PackageType,
		&booking.GuestName,
		&booking.GuestPhone,
		&booking.GuestEmail,
		&booking.CouponCode,
		&snapshotJSON,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.ChildrenAges = make([]int, 0, len(ages))
	for _, a := range ages {
		booking.ChildrenAges = append(booking.ChildrenAges, int(a))
	}

	if len(snapshotJSON) > 0 {
		if err := json.Unmarshal(snapshotJSON, &booking.Snapshot); err != nil {
			return nil, fmt.Errorf("unmarshal pricing snapshot: %w", err)
		}
	}

	return &booking, nil
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	query := `
		INSERT INTO bookings (
			booking_code, access_token, room_id, check_in, check_out,
			room_count, adults, children, children_ages, package_type,
			guest_name, guest_phone, guest_email, coupon_code, snapshot,
			status, payment_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`

	snapshotJSON, err := json.Marshal(booking.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal pricing snapshot: %w", err)
	}

	ages := make([]int32, 0, len(booking.ChildrenAges))
	for _, a := range booking.ChildrenAges {
		ages = append(ages, int32(a))
	}

	err = querier(ctx, r.pool).QueryRow(ctx, query,
		booking.BookingCode, booking.AccessToken, booking.RoomID,
		booking.CheckIn, booking.CheckOut,
		booking.RoomCount, booking.Adults, booking.Children, ages, booking.PackageType,
		booking.GuestName, booking.GuestPhone, booking.GuestEmail,
		booking.CouponCode, snapshotJSON,
		booking.Status, booking.PaymentStatus,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	return booking, nil
}

func (r *BookingRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = $1 AND deleted_at IS NULL
	`
	return r.findOne(ctx, query, id)
}

func (r *BookingRepositoryImpl) FindByAccessToken(ctx context.Context, token string) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE access_token = $1 AND deleted_at IS NULL
	`
	return r.findOne(ctx, query, token)
}

func (r *BookingRepositoryImpl) FindByCode(ctx context.Context, code string) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE booking_code = $1 AND deleted_at IS NULL
	`
	return r.findOne(ctx, query, code)
}

func (r *BookingRepositoryImpl) findOne(ctx context.Context, query string, arg any) (*model.Booking, error) {
	booking, err := scanBooking(querier(ctx, r.pool).QueryRow(ctx, query, arg))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepositoryImpl) ListByRoomID(ctx context.Context, roomID int) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE room_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`

	rows, err := querier(ctx, r.pool).Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]*model.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *BookingRepositoryImpl) UpdateStatus(ctx context.Context, id int, status model.BookingStatus) (*model.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
		RETURNING ` + bookingColumns + `
	`

	booking, err := scanBooking(querier(ctx, r.pool).QueryRow(ctx, query, status, time.Now().UTC(), id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	return booking, nil
}

func (r *BookingRepositoryImpl) UpdatePaymentStatus(ctx context.Context, id int, status model.PaymentStatus) error {
	query := `
		UPDATE bookings
		SET payment_status = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`

	result, err := querier(ctx, r.pool).Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrBookingNotFound
	}

	return nil
}
