package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Afnanpathan2004/livedisplay-sub001/internal/model"
)

// RoomFilter 教室查询条件
type RoomFilter struct {
	Building    string
	Status      string
	MinCapacity int
}

// RoomRepository 教室数据访问接口
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	GetByRoomNumber(ctx context.Context, roomNumber string) (*model.Room, error)
	List(ctx context.Context, filter RoomFilter) ([]model.Room, error)
	Update(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, id string) error
}

type roomRepo struct {
	db *gorm.DB
}

func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) GetByRoomNumber(ctx context.Context, roomNumber string) (*model.Room, error) {
	var room model.Room
	if err := r.db.WithContext(ctx).Where("room_number = ?", roomNumber).First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) List(ctx context.Context, filter RoomFilter) ([]model.Room, error) {
	db := r.db.WithContext(ctx).Model(&model.Room{})
	if filter.Building != "" {
		db = db.Where("building = ?", filter.Building)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.MinCapacity > 0 {
		db = db.Where("capacity >= ?", filter.MinCapacity)
	}
	var rooms []model.Room
	err := db.Order("room_number ASC").Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) Update(ctx context.Context, room *model.Room) error {
	return updateExisting(ctx, r.db, room, room.ID)
}

func (r *roomRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &model.Room{}, id)
}
