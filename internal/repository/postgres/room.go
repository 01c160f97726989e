package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/practice-api/internal/model"
	"github.com/jwalitptl/practice-api/internal/repository"
)

type roomRepository struct {
	BaseRepository
}

func NewRoomRepository(base BaseRepository) repository.RoomRepository {
	return &roomRepository{base}
}

func (r *roomRepository) Create(ctx context.Context, room *model.Room) (err error) {
	defer r.observe("rooms.create", time.Now(), &err)

	query := `
		INSERT INTO rooms (
			name, capacity, has_wifi, has_air_conditioning, square_meters, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	if err := r.db.GetContext(ctx, &room.ID, query,
		room.Name,
		room.Capacity,
		room.HasWifi,
		room.HasAirConditioning,
		room.SquareMeters,
		room.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create room: %w", translate("room", err))
	}
	return nil
}

func (r *roomRepository) Get(ctx context.Context, id int64) (room *model.Room, err error) {
	defer r.observe("rooms.get", time.Now(), &err)

	var out model.Room
	if err := r.db.GetContext(ctx, &out, `SELECT * FROM rooms WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to get room: %w", translate("room", err))
	}
	return &out, nil
}

func (r *roomRepository) List(ctx context.Context) (rooms []*model.Room, err error) {
	defer r.observe("rooms.list", time.Now(), &err)

	if err := r.db.SelectContext(ctx, &rooms, `SELECT * FROM rooms ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (r *roomRepository) Delete(ctx context.Context, id int64) (err error) {
	defer r.observe("rooms.delete", time.Now(), &err)

	if err := execOne(ctx, r.db, "room", `DELETE FROM rooms WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}
