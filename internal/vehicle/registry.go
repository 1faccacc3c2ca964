package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GarageBook/GarageBook/internal/common/apperr"
	commondb "github.com/GarageBook/GarageBook/internal/common/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServicePurger 删除车辆时清理其服务记录（由服务台账的 Repo 实现，main 里注入）。
type ServicePurger interface {
	PurgeVehicleTx(tx *gorm.DB, ownerID, vehicleID string) error
}

// Registry 车辆注册表用例层：所有读写都以 owner 过滤。
type Registry struct {
	repo   *Repo
	db     *gorm.DB
	purger ServicePurger
}

func NewRegistry(db *gorm.DB, purger ServicePurger) *Registry {
	return &Registry{
		repo:   NewRepo(db),
		db:     db,
		purger: purger,
	}
}

// CreateInput 创建车辆的入参。
type CreateInput struct {
	VehicleNumber      string
	VehicleType        string
	Brand              string
	Notes              string
	RegistrationNumber string
	RegistrationExpiry *time.Time
}

// Patch 局部更新。nil 字段表示不修改。owner 不在其中，创建后不可改。
type Patch struct {
	VehicleNumber      *string
	VehicleType        *string
	Brand              *string
	Notes              *string
	RegistrationNumber *string
	RegistrationExpiry *time.Time
}

// List 按创建时间倒序返回 owner 的全部车辆。
func (g *Registry) List(ctx context.Context, ownerID string) ([]Vehicle, error) {
	if g == nil || g.repo == nil {
		return nil, fmt.Errorf("registry not initialized")
	}
	return g.repo.ListByOwner(ctx, ownerID)
}

// Create 创建车辆并绑定 owner。vehicleNumber/vehicleType/brand 必填。
func (g *Registry) Create(ctx context.Context, ownerID string, in CreateInput) (*Vehicle, error) {
	if g == nil || g.repo == nil {
		return nil, fmt.Errorf("registry not initialized")
	}
	number := strings.TrimSpace(in.VehicleNumber)
	vtype := strings.TrimSpace(in.VehicleType)
	brand := strings.TrimSpace(in.Brand)
	if number == "" || vtype == "" || brand == "" {
		return nil, fmt.Errorf("vehicleNumber/vehicleType/brand required: %w", apperr.ErrInvalidInput)
	}

	v := &Vehicle{
		ID:                 uuid.NewString(),
		VehicleNumber:      number,
		VehicleType:        vtype,
		Brand:              brand,
		Notes:              strings.TrimSpace(in.Notes),
		RegistrationNumber: strings.TrimSpace(in.RegistrationNumber),
		RegistrationExpiry: in.RegistrationExpiry,
		OwnerID:            ownerID,
	}
	if err := g.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Update 按 “id + owner” 复合过滤取出车辆后应用 patch。
// 记录不存在与属于他人统一返回 NotFound。
func (g *Registry) Update(ctx context.Context, ownerID, vehicleID string, p Patch) (*Vehicle, error) {
	if g == nil || g.repo == nil {
		return nil, fmt.Errorf("registry not initialized")
	}
	v, err := g.repo.FindOwned(ctx, vehicleID, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("vehicle not found: %w", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if p.VehicleNumber != nil {
		number := strings.TrimSpace(*p.VehicleNumber)
		if number == "" {
			return nil, fmt.Errorf("vehicleNumber must not be empty: %w", apperr.ErrInvalidInput)
		}
		v.VehicleNumber = number
	}
	if p.VehicleType != nil {
		vtype := strings.TrimSpace(*p.VehicleType)
		if vtype == "" {
			return nil, fmt.Errorf("vehicleType must not be empty: %w", apperr.ErrInvalidInput)
		}
		v.VehicleType = vtype
	}
	if p.Brand != nil {
		brand := strings.TrimSpace(*p.Brand)
		if brand == "" {
			return nil, fmt.Errorf("brand must not be empty: %w", apperr.ErrInvalidInput)
		}
		v.Brand = brand
	}
	if p.Notes != nil {
		v.Notes = strings.TrimSpace(*p.Notes)
	}
	if p.RegistrationNumber != nil {
		v.RegistrationNumber = strings.TrimSpace(*p.RegistrationNumber)
	}
	if p.RegistrationExpiry != nil {
		v.RegistrationExpiry = p.RegistrationExpiry
	}

	if err := g.repo.Save(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete 删除 owner 名下的车辆，并在同一事务里级联清理其服务记录。
// 复合过滤未命中（不存在或属于他人）返回 NotFound；重复删除同样 NotFound。
func (g *Registry) Delete(ctx context.Context, ownerID, vehicleID string) error {
	if g == nil || g.db == nil {
		return fmt.Errorf("registry not initialized")
	}
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Scopes(commondb.OwnedBy(vehicleID, ownerID)).Delete(&Vehicle{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("vehicle not found: %w", apperr.ErrNotFound)
		}
		if g.purger != nil {
			return g.purger.PurgeVehicleTx(tx, ownerID, vehicleID)
		}
		return nil
	})
}
