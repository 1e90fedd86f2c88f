package model

import (
	"time"

	"github.com/google/uuid"
)

// Room 房型模型
type Room struct {
	ID            int        `json:"id" db:"id"`
	RoomID        uuid.UUID  `json:"room_id" db:"room_id"`
	HotelID       int        `json:"hotel_id" db:"hotel_id"`
	Name          string     `json:"name" db:"name"`
	BaseOccupancy int        `json:"base_occupancy" db:"base_occupancy"`
	TotalRooms    int        `json:"total_rooms" db:"total_rooms"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// IsDeleted 檢查房型是否已刪除
func (r *Room) IsDeleted() bool {
	return r.DeletedAt != nil
}
