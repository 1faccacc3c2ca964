package maintenance

import (
	"fmt"
	"strings"
	"time"

	"github.com/GarageBook/GarageBook/internal/common/apperr"
	"github.com/GarageBook/GarageBook/internal/vehicle"
)

// Type 服务类型枚举（持久化为字符串）。
type Type string

const (
	TypeMaintenance Type = "maintenance" // 常规保养
	TypeRepair      Type = "repair"      // 维修
	TypeInspection  Type = "inspection"  // 检查/年检
	TypeReplacement Type = "replacement" // 部件更换
	TypeOther       Type = "other"       // 其他
)

// ParseType 解析服务类型。空串取默认值 maintenance，未知取值报 InvalidInput。
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return TypeMaintenance, nil
	}
	switch t := Type(s); t {
	case TypeMaintenance, TypeRepair, TypeInspection, TypeReplacement, TypeOther:
		return t, nil
	}
	return "", fmt.Errorf("unknown serviceType %q: %w", s, apperr.ErrInvalidInput)
}

// Service 是 services 表的 GORM 模型（一条维修/保养记录）。
// owner_id 是创建时从所引用车辆冗余下来的归属，写入后与 vehicle_id 一起
// 构成所有查询的复合过滤条件。
type Service struct {
	ID                 string     `gorm:"primaryKey;size:36" json:"id"`
	VehicleID          string     `gorm:"index:idx_owner_vehicle_date,priority:2;size:36;not null" json:"vehicleId"`
	OwnerID            string     `gorm:"index:idx_owner_vehicle_date,priority:1;size:36;not null" json:"ownerId"`
	ServiceDescription string     `gorm:"size:512;not null" json:"serviceDescription"`
	ServiceDate        time.Time  `gorm:"index:idx_owner_vehicle_date,priority:3;not null" json:"serviceDate"`
	ServiceCost        float64    `gorm:"not null;default:0" json:"serviceCost"`
	ServiceProvider    string     `gorm:"size:128" json:"serviceProvider,omitempty"`
	Notes              string     `gorm:"size:512" json:"notes,omitempty"`
	NextServiceDate    *time.Time `json:"nextServiceDate,omitempty"`
	ServiceType        Type       `gorm:"type:varchar(16);not null;default:'maintenance'" json:"serviceType"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Record 联查车辆摘要后的返回结构。
type Record struct {
	Service
	Vehicle *vehicle.Summary `json:"vehicle,omitempty"`
}
