package repository

import (
	"context"

	"hotel-booking-engine/internal/model"
	apperrors "hotel-booking-engine/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository interface {
	FindByID(ctx context.Context, id int) (*model.Room, error)
	ListByHotelID(ctx context.Context, hotelID int) ([]*model.Room, error)
	ListSurchargeRules(ctx context.Context, roomID int) ([]*model.SurchargeRule, error)
}

type RoomRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRoomRepository(pool *pgxpool.Pool) RoomRepository {
	return &RoomRepositoryImpl{pool: pool}
}

func (r *RoomRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Room, error) {
	query := `
		SELECT id, room_id, hotel_id, name, base_occupancy, total_rooms,
		       created_at, updated_at, deleted_at
		FROM rooms
		WHERE id = $1 AND deleted_at IS NULL
	`

	var room model.Room
	err := querier(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.RoomID,
		&room.HotelID,
		&room.Name,
		&room.BaseOccupancy,
		&room.TotalRooms,
		&room.CreatedAt,
		&room.UpdatedAt,
		&room.DeletedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, err
	}

	return &room, nil
}

func (r *RoomRepositoryImpl) ListByHotelID(ctx context.Context, hotelID int) ([]*model.Room, error) {
	query := `
		SELECT id, room_id, hotel_id, name, base_occupancy, total_rooms,
		       created_at, updated_at, deleted_at
		FROM rooms
		WHERE hotel_id = $1 AND deleted_at IS NULL
		ORDER BY id
	`

	rows, err := querier(ctx, r.pool).Query(ctx, query, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]*model.Room, 0)

	for rows.Next() {
		var room model.Room
		err := rows.Scan(
			&room.ID,
			&room.RoomID,
			&room.HotelID,
			&room.Name,
			&room.BaseOccupancy,
			&room.TotalRooms,
			&room.CreatedAt,
			&room.UpdatedAt,
			&room.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, &room)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rooms, nil
}

func (r *RoomRepositoryImpl) ListSurchargeRules(ctx context.Context, roomID int) ([]*model.SurchargeRule, error) {
	query := `
		SELECT id, room_id, kind, min_age, max_age, amount, amount_unit,
		       per_night, mandatory, applies_room_only, applies_package, sort_order
		FROM surcharge_rules
		WHERE room_id = $1
		ORDER BY sort_order, id
	`

	rows, err := querier(ctx, r.pool).Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rules := make([]*model.SurchargeRule, 0)

	for rows.Next() {
		var rule model.SurchargeRule
		err := rows.Scan(
			&rule.ID,
			&rule.RoomID,
			&rule.Kind,
			&rule.MinAge,
			&rule.MaxAge,
			&rule.Amount,
			&rule.AmountUnit,
			&rule.PerNight,
			&rule.Mandatory,
			&rule.AppliesRoomOnly,
			&rule.AppliesPackage,
			&rule.SortOrder,
		)
		if err != nil {
			return nil, err
		}
		rules = append(rules, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rules, nil
}
