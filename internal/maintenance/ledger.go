package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GarageBook/GarageBook/internal/common/apperr"
	"github.com/GarageBook/GarageBook/internal/common/timeutil"
	"github.com/GarageBook/GarageBook/internal/vehicle"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger 服务台账用例层。
//
// 核心不变量：service.owner 必须等于其引用车辆的 owner。没有数据库外键兜底，
// 所以每个引入或变更 vehicle 引用的写操作都先按 “id + owner” 复合过滤确认车辆
// 归属，未命中时统一返回 NotFound（不区分 “不存在” 与 “不是你的”）。
type Ledger struct {
	repo     *Repo
	vehicles *vehicle.Repo
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{
		repo:     NewRepo(db),
		vehicles: vehicle.NewRepo(db),
	}
}

// CreateInput 创建服务记录的入参。日期为客户端原始字符串，这里解析规范化。
type CreateInput struct {
	VehicleID          string
	ServiceDescription string
	ServiceDate        string
	ServiceCost        float64
	ServiceProvider    string
	Notes              string
	NextServiceDate    string
	ServiceType        string
}

// Patch 局部更新。nil 字段表示不修改。
type Patch struct {
	VehicleID          *string
	ServiceDescription *string
	ServiceDate        *string
	ServiceCost        *float64
	ServiceProvider    *string
	Notes              *string
	NextServiceDate    *string
	ServiceType        *string
}

// List 按服务日期倒序返回 owner 的全部服务记录，并附带各自车辆摘要。
func (l *Ledger) List(ctx context.Context, ownerID string) ([]Record, error) {
	if l == nil || l.repo == nil {
		return nil, fmt.Errorf("ledger not initialized")
	}
	services, err := l.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return l.joinVehicles(ctx, ownerID, services)
}

// ListByVehicle 先确认车辆归属（未命中 NotFound），再返回该车的服务记录。
func (l *Ledger) ListByVehicle(ctx context.Context, ownerID, vehicleID string) ([]Service, error) {
	if l == nil || l.repo == nil {
		return nil, fmt.Errorf("ledger not initialized")
	}
	if _, err := l.vehicles.FindOwned(ctx, vehicleID, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vehicle not found: %w", apperr.ErrNotFound)
		}
		return nil, err
	}
	return l.repo.ListByVehicle(ctx, ownerID, vehicleID)
}

// Create 创建服务记录。vehicleId/serviceDescription/serviceDate 必填；
// 先复核车辆归属，再以车辆 owner 冗余写入 owner_id。
func (l *Ledger) Create(ctx context.Context, ownerID string, in CreateInput) (*Record, error) {
	if l == nil || l.repo == nil {
		return nil, fmt.Errorf("ledger not initialized")
	}
	vehicleID := strings.TrimSpace(in.VehicleID)
	description := strings.TrimSpace(in.ServiceDescription)
	if vehicleID == "" || description == "" || strings.TrimSpace(in.ServiceDate) == "" {
		return nil, fmt.Errorf("vehicleId/serviceDescription/serviceDate required: %w", apperr.ErrInvalidInput)
	}

	serviceDate, err := timeutil.ParseDate(in.ServiceDate)
	if err != nil {
		return nil, fmt.Errorf("invalid serviceDate: %w", apperr.ErrInvalidInput)
	}
	var nextDate *time.Time
	if strings.TrimSpace(in.NextServiceDate) != "" {
		when, err := timeutil.ParseDate(in.NextServiceDate)
		if err != nil {
			return nil, fmt.Errorf("invalid nextServiceDate: %w", apperr.ErrInvalidInput)
		}
		nextDate = &when
	}
	serviceType, err := ParseType(in.ServiceType)
	if err != nil {
		return nil, err
	}

	v, err := l.vehicles.FindOwned(ctx, vehicleID, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("vehicle not found: %w", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	s := &Service{
		ID:                 uuid.NewString(),
		VehicleID:          v.ID,
		OwnerID:            v.OwnerID,
		ServiceDescription: description,
		ServiceDate:        serviceDate,
		ServiceCost:        in.ServiceCost,
		ServiceProvider:    strings.TrimSpace(in.ServiceProvider),
		Notes:              strings.TrimSpace(in.Notes),
		NextServiceDate:    nextDate,
		ServiceType:        serviceType,
	}
	if err := l.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return &Record{Service: *s, Vehicle: v.Summarize()}, nil
}

// Update 按复合过滤取出记录后应用 patch；patch 改动 vehicleId 时重新复核
// 新车辆的归属并刷新冗余的 owner 配对。
func (l *Ledger) Update(ctx context.Context, ownerID, serviceID string, p Patch) (*Record, error) {
	if l == nil || l.repo == nil {
		return nil, fmt.Errorf("ledger not initialized")
	}
	s, err := l.repo.FindOwned(ctx, serviceID, ownerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("service not found: %w", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if p.VehicleID != nil && strings.TrimSpace(*p.VehicleID) != s.VehicleID {
		newVehicleID := strings.TrimSpace(*p.VehicleID)
		if newVehicleID == "" {
			return nil, fmt.Errorf("vehicleId must not be empty: %w", apperr.ErrInvalidInput)
		}
		v, err := l.vehicles.FindOwned(ctx, newVehicleID, ownerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vehicle not found: %w", apperr.ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		s.VehicleID = v.ID
		s.OwnerID = v.OwnerID
	}
	if p.ServiceDescription != nil {
		description := strings.TrimSpace(*p.ServiceDescription)
		if description == "" {
			return nil, fmt.Errorf("serviceDescription must not be empty: %w", apperr.ErrInvalidInput)
		}
		s.ServiceDescription = description
	}
	if p.ServiceDate != nil {
		when, err := timeutil.ParseDate(*p.ServiceDate)
		if err != nil {
			return nil, fmt.Errorf("invalid serviceDate: %w", apperr.ErrInvalidInput)
		}
		s.ServiceDate = when
	}
	if p.ServiceCost != nil {
		s.ServiceCost = *p.ServiceCost
	}
	if p.ServiceProvider != nil {
		s.ServiceProvider = strings.TrimSpace(*p.ServiceProvider)
	}
	if p.Notes != nil {
		s.Notes = strings.TrimSpace(*p.Notes)
	}
	if p.NextServiceDate != nil {
		if strings.TrimSpace(*p.NextServiceDate) == "" {
			s.NextServiceDate = nil
		} else {
			when, err := timeutil.ParseDate(*p.NextServiceDate)
			if err != nil {
				return nil, fmt.Errorf("invalid nextServiceDate: %w", apperr.ErrInvalidInput)
			}
			s.NextServiceDate = &when
		}
	}
	if p.ServiceType != nil {
		serviceType, err := ParseType(*p.ServiceType)
		if err != nil {
			return nil, err
		}
		s.ServiceType = serviceType
	}

	if err := l.repo.Save(ctx, s); err != nil {
		return nil, err
	}

	rec := &Record{Service: *s}
	if v, err := l.vehicles.FindOwned(ctx, s.VehicleID, ownerID); err == nil {
		rec.Vehicle = v.Summarize()
	}
	return rec, nil
}

// Delete 按复合过滤删除；未命中（不存在/属于他人/已删过）返回 NotFound。
func (l *Ledger) Delete(ctx context.Context, ownerID, serviceID string) error {
	if l == nil || l.repo == nil {
		return fmt.Errorf("ledger not initialized")
	}
	deleted, err := l.repo.DeleteOwned(ctx, serviceID, ownerID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("service not found: %w", apperr.ErrNotFound)
	}
	return nil
}

// joinVehicles 批量补齐车辆摘要（按 owner 过滤后一次 IN 查询）。
func (l *Ledger) joinVehicles(ctx context.Context, ownerID string, services []Service) ([]Record, error) {
	records := make([]Record, 0, len(services))
	if len(services) == 0 {
		return records, nil
	}

	seen := make(map[string]struct{}, len(services))
	ids := make([]string, 0, len(services))
	for i := range services {
		if _, ok := seen[services[i].VehicleID]; ok {
			continue
		}
		seen[services[i].VehicleID] = struct{}{}
		ids = append(ids, services[i].VehicleID)
	}

	vehicles, err := l.vehicles.ListByIDs(ctx, ownerID, ids)
	if err != nil {
		return nil, err
	}
	summaries := make(map[string]*vehicle.Summary, len(vehicles))
	for i := range vehicles {
		summaries[vehicles[i].ID] = vehicles[i].Summarize()
	}

	for i := range services {
		records = append(records, Record{
			Service: services[i],
			Vehicle: summaries[services[i].VehicleID],
		})
	}
	return records, nil
}
