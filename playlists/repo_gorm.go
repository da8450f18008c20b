package playlists

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/jrsteele09/go-playlist-server/catalog"
)

type playlistModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	UserID      string `gorm:"index;not null"`
	Name        string
	Description string
	Tracks      []catalog.Track `gorm:"serializer:json"`
	CreatedAt   time.Time
}

func (playlistModel) TableName() string {
	return "playlists"
}

var _ Repo = (*GormRepo)(nil)

// GormRepo persists playlists in the shared relational store. Tracks are
// serialized as a JSON column - they are read and written as a unit, never
// queried individually.
type GormRepo struct {
	db *gorm.DB
}

func NewGormRepo(db *gorm.DB) (*GormRepo, error) {
	if db == nil {
		return nil, errors.New("[NewGormRepo] db is required")
	}
	if err := db.AutoMigrate(&playlistModel{}); err != nil {
		return nil, errors.Wrap(err, "[NewGormRepo] migrate playlists")
	}
	return &GormRepo{db: db}, nil
}

func (r *GormRepo) Create(ctx context.Context, playlist *Playlist) error {
	if playlist == nil {
		return errors.New("playlist cannot be nil")
	}
	err := r.db.WithContext(ctx).Create(&playlistModel{
		ID:          playlist.ID,
		UserID:      playlist.UserID,
		Name:        playlist.Name,
		Description: playlist.Description,
		Tracks:      playlist.Tracks,
		CreatedAt:   playlist.CreatedAt,
	}).Error
	return errors.Wrap(err, "create playlist")
}

func (r *GormRepo) ListByUser(ctx context.Context, userID string) ([]*Playlist, error) {
	var models []playlistModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, errors.Wrap(err, "list playlists")
	}

	result := make([]*Playlist, 0, len(models))
	for _, m := range models {
		result = append(result, &Playlist{
			ID:          m.ID,
			UserID:      m.UserID,
			Name:        m.Name,
			Description: m.Description,
			Tracks:      m.Tracks,
			CreatedAt:   m.CreatedAt,
		})
	}
	return result, nil
}
