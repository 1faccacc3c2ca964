package vehicle

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

func (r *Repo) Create(ctx context.Context, v *Vehicle) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Create(v).Error
}

func (r *Repo) Save(ctx context.Context, v *Vehicle) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Save(v).Error
}

// FindOwned 按 “id + owner” 复合过滤取车辆；不存在与属于他人都返回 ErrRecordNotFound。
func (r *Repo) FindOwned(ctx context.Context, id, ownerID string) (*Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var v Vehicle
	if err := db.Scopes(commondb.OwnedBy(id, ownerID)).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// ListByOwner 按创建时间倒序返回 owner 的全部车辆。
func (r *Repo) ListByOwner(ctx context.Context, ownerID string) ([]Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var vehicles []Vehicle
	if err := db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// ListByIDs 取 owner 名下指定 id 集合的车辆（服务台账联查用）。
func (r *Repo) ListByIDs(ctx context.Context, ownerID string, ids []string) ([]Vehicle, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var vehicles []Vehicle
	if err := db.Where("owner_id = ? AND id IN ?", ownerID, ids).Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}
