//go:build unit || e2e

package builder

import (
	"time"

	"stayops/internal/domain/room"
	"stayops/internal/usecase/commands"
)

type RoomTypeBuilder struct {
	Name          string
	BaseRateCents int64
	MaxAdults     int
	MaxChildren   int
	BedCount      int
	Features      []string
	Now           time.Time
}

func NewRoomTypeBuilder() *RoomTypeBuilder {
	return &RoomTypeBuilder{
		Name:          "Deluxe King",
		BaseRateCents: 18000,
		MaxAdults:     2,
		MaxChildren:   1,
		BedCount:      1,
		Features:      []string{"wifi", "balcony"},
		Now:           time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *RoomTypeBuilder) With(mutate func(*RoomTypeBuilder)) *RoomTypeBuilder {
	mutate(b)
	return b
}

func (b *RoomTypeBuilder) BuildDomain() (*room.RoomType, error) {
	return room.NewRoomType(b.Name, b.BaseRateCents, b.MaxAdults, b.MaxChildren, b.BedCount, b.Features, b.Now)
}

func (b *RoomTypeBuilder) BuildParams() commands.CreateRoomTypeParams {
	return commands.CreateRoomTypeParams{
		Name:          b.Name,
		BaseRateCents: b.BaseRateCents,
		MaxAdults:     b.MaxAdults,
		MaxChildren:   b.MaxChildren,
		BedCount:      b.BedCount,
		Features:      b.Features,
	}
}

type RoomBuilder struct {
	RoomNumber string
	Floor      int
	Capacity   int
	Now        time.Time
}

func NewRoomBuilder() *RoomBuilder {
	return &RoomBuilder{
		RoomNumber: "301",
		Floor:      3,
		Capacity:   3,
		Now:        time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (b *RoomBuilder) With(mutate func(*RoomBuilder)) *RoomBuilder {
	mutate(b)
	return b
}
