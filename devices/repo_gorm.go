package devices

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type deviceModel struct {
	ID           string `gorm:"primaryKey;size:36"`
	Platform     string `gorm:"not null"`
	AppVersion   string
	Fingerprint  string
	RegisteredAt time.Time
}

func (deviceModel) TableName() string {
	return "devices"
}

var _ Repo = (*GormRepo)(nil)

// GormRepo persists the device registry in the shared relational store.
type GormRepo struct {
	db *gorm.DB
}

func NewGormRepo(db *gorm.DB) (*GormRepo, error) {
	if db == nil {
		return nil, errors.New("[NewGormRepo] db is required")
	}
	if err := db.AutoMigrate(&deviceModel{}); err != nil {
		return nil, errors.Wrap(err, "[NewGormRepo] migrate devices")
	}
	return &GormRepo{db: db}, nil
}

func (r *GormRepo) Create(ctx context.Context, device *Device) error {
	if device == nil {
		return errors.New("device cannot be nil")
	}
	err := r.db.WithContext(ctx).Create(&deviceModel{
		ID:           device.ID,
		Platform:     device.Platform,
		AppVersion:   device.AppVersion,
		Fingerprint:  device.Fingerprint,
		RegisteredAt: device.RegisteredAt,
	}).Error
	return errors.Wrap(err, "create device")
}

func (r *GormRepo) Get(ctx context.Context, id string) (*Device, error) {
	var model deviceModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get device")
	}
	return &Device{
		ID:           model.ID,
		Platform:     model.Platform,
		AppVersion:   model.AppVersion,
		Fingerprint:  model.Fingerprint,
		RegisteredAt: model.RegisteredAt,
	}, nil
}
