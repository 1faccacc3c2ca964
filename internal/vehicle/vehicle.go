package vehicle

import (
	"time"
)

// Vehicle 是 vehicles 表的 GORM 模型。
// owner_id 在创建时写入，之后不可变更（没有任何接口能改它）。
// vehicle_number 不做唯一约束，同一 owner 下也允许重复。
type Vehicle struct {
	ID                 string     `gorm:"primaryKey;size:36" json:"id"`
	VehicleNumber      string     `gorm:"size:32;not null" json:"vehicleNumber"`
	VehicleType        string     `gorm:"size:32;not null" json:"vehicleType"`
	Brand              string     `gorm:"size:64;not null" json:"brand"`
	Notes              string     `gorm:"size:512" json:"notes,omitempty"`
	RegistrationNumber string     `gorm:"size:64" json:"registrationNumber,omitempty"`
	RegistrationExpiry *time.Time `json:"registrationExpiry,omitempty"`
	OwnerID            string     `gorm:"index;size:36;not null" json:"ownerId"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Summary 联查场景下暴露的车辆摘要（服务台账返回时附带）。
type Summary struct {
	ID            string `json:"id"`
	VehicleNumber string `json:"vehicleNumber"`
	VehicleType   string `json:"vehicleType"`
	Brand         string `json:"brand"`
}

// Summarize 生成摘要。
func (v *Vehicle) Summarize() *Summary {
	if v == nil {
		return nil
	}
	return &Summary{
		ID:            v.ID,
		VehicleNumber: v.VehicleNumber,
		VehicleType:   v.VehicleType,
		Brand:         v.Brand,
	}
}
