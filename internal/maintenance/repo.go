package maintenance

import (
	"context"
	"fmt"

	commondb "github.com/GarageBook/GarageBook/internal/common/db"
	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

func (r *Repo) Create(ctx context.Context, s *Service) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(s).Error
}

func (r *Repo) Save(ctx context.Context, s *Service) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Save(s).Error
}

// FindOwned 按 “id + owner” 复合过滤取服务记录。
func (r *Repo) FindOwned(ctx context.Context, id, ownerID string) (*Service, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var s Service
	if err := db.Scopes(commondb.OwnedBy(id, ownerID)).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteOwned 按复合过滤删除；返回是否真的删掉了一行。
func (r *Repo) DeleteOwned(ctx context.Context, id, ownerID string) (bool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	res := db.Scopes(commondb.OwnedBy(id, ownerID)).Delete(&Service{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByOwner 按服务日期倒序返回 owner 的全部服务记录。
func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]Service, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var services []Service
	if err := db.Where("owner_id = ?", ownerID).Order("service_date DESC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// ListByVehicle 按服务日期倒序返回某车辆的服务记录（owner + vehicle 双重过滤）。
func (r *Repo) ListByVehicle(ctx context.Context, ownerID, vehicleID string) ([]Service, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var services []Service
	if err := db.Where("owner_id = ? AND vehicle_id = ?", ownerID, vehicleID).
		Order("service_date DESC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// PurgeVehicleTx 在既有事务里删除某车辆的全部服务记录（车辆删除时级联调用）。
func (r *Repo) PurgeVehicleTx(tx *gorm.DB, ownerID, vehicleID string) error {
	if tx == nil {
		return fmt.Errorf("tx is nil")
	}
	return tx.Where("owner_id = ? AND vehicle_id = ?", ownerID, vehicleID).Delete(&Service{}).Error
}
