package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/GarageBook/GarageBook/internal/common/apperr"
	"github.com/GarageBook/GarageBook/internal/vehicle"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&vehicle.Vehicle{}, &Service{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func newTestVehicle(t *testing.T, db *gorm.DB, ownerID, number string) *vehicle.Vehicle {
	t.Helper()
	reg := vehicle.NewRegistry(db, nil)
	v, err := reg.Create(context.Background(), ownerID, vehicle.CreateInput{
		VehicleNumber: number,
		VehicleType:   "Car",
		Brand:         "Toyota",
	})
	if err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	return v
}

func TestCreateRequiresFields(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	v := newTestVehicle(t, db, "u-1", "KA01AB1234")
	ctx := context.Background()

	cases := []CreateInput{
		{ServiceDescription: "Oil change", ServiceDate: "2024-01-01"},
		{VehicleID: v.ID, ServiceDate: "2024-01-01"},
		{VehicleID: v.ID, ServiceDescription: "Oil change"},
		{VehicleID: v.ID, ServiceDescription: "Oil change", ServiceDate: "not-a-date"},
	}
	for i, in := range cases {
		if _, err := ledger.Create(ctx, "u-1", in); !errors.Is(err, apperr.ErrInvalidInput) {
			t.Fatalf("case %d: expected invalid input, got %v", i, err)
		}
	}
}

func TestCreateDefaultsAndJoin(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	v := newTestVehicle(t, db, "u-1", "KA01AB1234")
	ctx := context.Background()

	record, err := ledger.Create(ctx, "u-1", CreateInput{
		VehicleID:          v.ID,
		ServiceDescription: "Oil change",
		ServiceDate:        "2024-01-01",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if record.ServiceType != TypeMaintenance {
		t.Fatalf("expected serviceType defaulted to maintenance, got %s", record.ServiceType)
	}
	if record.ServiceCost != 0 {
		t.Fatalf("expected serviceCost defaulted to 0, got %v", record.ServiceCost)
	}
	if record.OwnerID != v.OwnerID {
		t.Fatalf("service owner must equal vehicle owner: %s != %s", record.OwnerID, v.OwnerID)
	}
	if record.Vehicle == nil || record.Vehicle.VehicleNumber != "KA01AB1234" {
		t.Fatalf("expected vehicle summary joined, got %+v", record.Vehicle)
	}
}

// 针对他人车辆（或不存在的车辆）创建服务记录必须 NotFound。
func TestCreateAgainstForeignVehicle(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	v := newTestVehicle(t, db, "u-1", "KA01AB1234")
	ctx := context.Background()

	in := CreateInput{
		VehicleID:          v.ID,
		ServiceDescription: "Oil change",
		ServiceDate:        "2024-01-01",
	}
	if _, err := ledger.Create(ctx, "u-2", in); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for foreign vehicle, got %v", err)
	}

	in.VehicleID = "no-such-vehicle"
	if _, err := ledger.Create(ctx, "u-1", in); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for missing vehicle, got %v", err)
	}
}

func TestListIsNewestServiceDateFirst(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	v := newTestVehicle(t, db, "u-1", "KA01AB1234")
	ctx := context.Background()

	for _, date := range []string{"2024-01-01", "2024-03-01", "2024-02-01"} {
		if _, err := ledger.Create(ctx, "u-1", CreateInput{
			VehicleID:          v.ID,
			ServiceDescription: "service on " + date,
			ServiceDate:        date,
		}); err != nil {
			t.Fatalf("Create %s: %v", date, err)
		}
	}

	records, err := ledger.List(ctx, "u-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].ServiceDescription != "service on 2024-03-01" ||
		records[2].ServiceDescription != "service on 2024-01-01" {
		t.Fatalf("expected newest service-date first, got %s..%s",
			records[0].ServiceDescription, records[2].ServiceDescription)
	}
	for i := range records {
		if records[i].Vehicle == nil || records[i].Vehicle.ID != v.ID {
			t.Fatalf("record %d missing vehicle summary", i)
		}
	}
}

func TestListByVehicle(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	v1 := newTestVehicle(t, db, "u-1", "KA01AB0001")
	v2 := newTestVehicle(t, db, "u-1", "KA01AB0002")
	ctx := context.Background()

	for _, vid := range []string{v1.ID, v1.ID, v2.ID} {
		if _, err := ledger.Create(ctx, "u-1", CreateInput{
			VehicleID:          vid,
			ServiceDescription: "Oil change",
			ServiceDate:        "2024-01-01",
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	services, err := ledger.ListByVehicle(ctx, "u-1", v1.ID)
	if err != nil {
		t.Fatalf("ListByVehicle: %v", err)
	}
	if len(services) != 2 {
		t.Fatalf("expected 2 services for v1, got %d", len(services))
	}

	// 他人车辆与不存在的车辆同样 NotFound
	if _, err := ledger.ListByVehicle(ctx, "u-2", v1.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for foreign vehicle, got %v", err)
	}
	if _, err := ledger.ListByVehicle(ctx, "u-1", "no-such-vehicle"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for missing vehicle, got %v", err)
	}
}

func TestUpdateNormalizesDatesAndRechecksVehicle(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	v1 := newTestVehicle(t, db, "u-1", "KA01AB0001")
	v2 := newTestVehicle(t, db, "u-1", "KA01AB0002")
	foreign := newTestVehicle(t, db, "u-2", "KA01AB0003")
	ctx := context.Background()

	record, err := ledger.Create(ctx, "u-1", CreateInput{
		VehicleID:          v1.ID,
		ServiceDescription: "Oil change",
		ServiceDate:        "2024-01-01",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	date := "2024-02-15"
	next := "2024-08-15"
	cost := 59.99
	typ := "repair"
	updated, err := ledger.Update(ctx, "u-1", record.ID, Patch{
		ServiceDate:     &date,
		NextServiceDate: &next,
		ServiceCost:     &cost,
		ServiceType:     &typ,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.ServiceDate.Equal(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("serviceDate not normalized: %v", updated.ServiceDate)
	}
	if updated.NextServiceDate == nil || updated.NextServiceDate.Month() != time.August {
		t.Fatalf("nextServiceDate not normalized: %v", updated.NextServiceDate)
	}
	if updated.ServiceCost != 59.99 || updated.ServiceType != TypeRepair {
		t.Fatalf("patch not applied: %+v", updated.Service)
	}

	// 改指向自己的另一辆车：允许，且 owner 配对保持成立
	if _, err := ledger.Update(ctx, "u-1", record.ID, Patch{VehicleID: &v2.ID}); err != nil {
		t.Fatalf("Update vehicleId: %v", err)
	}
	moved, err := ledger.ListByVehicle(ctx, "u-1", v2.ID)
	if err != nil {
		t.Fatalf("ListByVehicle: %v", err)
	}
	if len(moved) != 1 || moved[0].OwnerID != "u-1" {
		t.Fatalf("expected service moved to v2 with owner intact, got %+v", moved)
	}

	// 改指向他人的车：NotFound
	if _, err := ledger.Update(ctx, "u-1", record.ID, Patch{VehicleID: &foreign.ID}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for foreign vehicle repoint, got %v", err)
	}

	bad := "not-a-date"
	if _, err := ledger.Update(ctx, "u-1", record.ID, Patch{ServiceDate: &bad}); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Fatalf("expected invalid input for bad date, got %v", err)
	}
}

func TestUpdateAndDeleteForeignServiceNotFound(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	v := newTestVehicle(t, db, "u-1", "KA01AB1234")
	ctx := context.Background()

	record, err := ledger.Create(ctx, "u-1", CreateInput{
		VehicleID:          v.ID,
		ServiceDescription: "Oil change",
		ServiceDate:        "2024-01-01",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	notes := "hacked"
	if _, err := ledger.Update(ctx, "u-2", record.ID, Patch{Notes: &notes}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for foreign update, got %v", err)
	}
	if err := ledger.Delete(ctx, "u-2", record.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for foreign delete, got %v", err)
	}

	if err := ledger.Delete(ctx, "u-1", record.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := ledger.Delete(ctx, "u-1", record.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

// 删除车辆会在同一事务里级联清理其服务记录；
// 之后按该车辆查询服务列表得到 NotFound（车辆已不存在）。
func TestVehicleDeleteCascadesToServices(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	reg := vehicle.NewRegistry(db, NewRepo(db))
	v := newTestVehicle(t, db, "u-1", "KA01AB1234")
	ctx := context.Background()

	if _, err := ledger.Create(ctx, "u-1", CreateInput{
		VehicleID:          v.ID,
		ServiceDescription: "Oil change",
		ServiceDate:        "2024-01-01",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := reg.Delete(ctx, "u-1", v.ID); err != nil {
		t.Fatalf("Delete vehicle: %v", err)
	}

	if _, err := ledger.ListByVehicle(ctx, "u-1", v.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after vehicle delete, got %v", err)
	}
	records, err := ledger.List(ctx, "u-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no orphaned services, got %d", len(records))
	}
}

// 注册→登录→建车→记一次保养→按车辆查询 的端到端领域流。
func TestServiceScenarioEndToEnd(t *testing.T) {
	db := newTestDB(t)
	ledger := NewLedger(db)
	v := newTestVehicle(t, db, "u-alice", "KA01AB1234")
	ctx := context.Background()

	record, err := ledger.Create(ctx, "u-alice", CreateInput{
		VehicleID:          v.ID,
		ServiceDescription: "Oil change",
		ServiceDate:        "2024-01-01",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	services, err := ledger.ListByVehicle(ctx, "u-alice", v.ID)
	if err != nil {
		t.Fatalf("ListByVehicle: %v", err)
	}
	if len(services) != 1 {
		t.Fatalf("expected 1 service, got %d", len(services))
	}
	got := services[0]
	if got.ID != record.ID || got.ServiceType != TypeMaintenance || got.ServiceCost != 0 {
		t.Fatalf("unexpected service: %+v", got)
	}
}
