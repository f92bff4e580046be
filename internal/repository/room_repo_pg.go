package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sardarhouse/guesthouse/internal/domain"
	"github.com/shopspring/decimal"
)

type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
}

type PGRoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) RoomRepository {
	return &PGRoomRepository{db: db}
}

func (r *PGRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	row := r.db.QueryRow(ctx, `SELECT id, number, type, nightly_rate::text, capacity, created_at, updated_at FROM rooms WHERE id=$1`, id)

	var (
		room domain.Room
		rate string
	)
	if err := row.Scan(&room.ID, &room.Number, &room.Type, &rate, &room.Capacity, &room.CreatedAt, &room.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}

	parsed, err := decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("parse nightly rate: %w", err)
	}
	room.NightlyRate = parsed

	return &room, nil
}

var _ RoomRepository = (*PGRoomRepository)(nil)
