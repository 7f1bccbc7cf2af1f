package room

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// RoomDTO is a catalog entry only. The live broadcast engine never
// consults the catalog: a room exists on the wire exactly as long as
// it has member connections.
type RoomDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

var ErrRoomNameTaken = errors.New("room name already taken")

type IRoomService interface {
	CreateRoom(ctx context.Context, name, createdBy string) (*RoomDTO, error)
	ListRooms(ctx context.Context, limit, offset int) ([]RoomDTO, error)
}

type roomService struct {
	db *sql.DB
}

func NewRoomService(db *sql.DB) IRoomService {
	return &roomService{db: db}
}

func (svc *roomService) CreateRoom(ctx context.Context, name, createdBy string) (*RoomDTO, error) {
	var exists bool
	err := svc.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM rooms WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrRoomNameTaken
	}

	dto := &RoomDTO{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	_, err = svc.db.ExecContext(ctx,
		`INSERT INTO rooms (id, name, created_by, created_at) VALUES ($1, $2, $3, $4)`,
		dto.ID, dto.Name, dto.CreatedBy, dto.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (svc *roomService) ListRooms(ctx context.Context, limit, offset int) ([]RoomDTO, error) {
	if limit == 0 {
		limit = 10
	}
	rows, err := svc.db.QueryContext(ctx,
		`SELECT id, name, created_by, created_at
		   FROM rooms ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]RoomDTO, 0, limit)
	for rows.Next() {
		var r RoomDTO
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedBy, &r.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}
