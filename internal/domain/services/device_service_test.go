package services

import (
	"testing"

	"gasguard-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 设备表名必须和原生SQL里关联的 iot_devices 一致，默认策略会拆成 io_t_devices
func TestDeviceTableName(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()

	assert.Equal(t, "iot_devices", models.IoTDevice{}.TableName())

	owner := createTestBusiness(t, db, "owner@acme.com")
	building := createTestBuilding(t, db, owner.ID, nil)
	createTestDevice(t, db, building.ID, "SN-0001", false)

	var count int64
	require.NoError(t, db.Table("iot_devices").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateDeviceDuplicateSerial(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	svc := NewDeviceService(db, testConfig())

	owner := createTestBusiness(t, db, "owner@acme.com")
	building := createTestBuilding(t, db, owner.ID, nil)

	err := svc.CreateDevice(owner.ID, &models.IoTDevice{
		BuildingID:   building.ID,
		SerialNumber: "SN-0001",
		Model:        "ESP32-GAS-V2",
	})
	require.NoError(t, err)

	// 序列号全局唯一，哪怕换了建筑
	second := createTestBuilding(t, db, owner.ID, nil)
	err = svc.CreateDevice(owner.ID, &models.IoTDevice{
		BuildingID:   second.ID,
		SerialNumber: "SN-0001",
		Model:        "ESP32-GAS-V2",
	})
	assert.ErrorIs(t, err, ErrSerialNumberExists)
}

func TestCreateDeviceForeignBuilding(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	svc := NewDeviceService(db, testConfig())

	owner := createTestBusiness(t, db, "owner@acme.com")
	other := createTestBusiness(t, db, "other@corp.com")
	building := createTestBuilding(t, db, owner.ID, nil)

	err := svc.CreateDevice(other.ID, &models.IoTDevice{
		BuildingID:   building.ID,
		SerialNumber: "SN-0001",
		Model:        "ESP32-GAS-V2",
	})
	assert.ErrorIs(t, err, ErrBuildingNotFound)
}

func TestDeleteDeviceOwnershipChain(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	svc := NewDeviceService(db, testConfig())

	owner := createTestBusiness(t, db, "owner@acme.com")
	other := createTestBusiness(t, db, "other@corp.com")
	building := createTestBuilding(t, db, owner.ID, nil)
	device := createTestDevice(t, db, building.ID, "SN-0001", false)

	err := svc.DeleteDevice(other.ID, device.ID)
	assert.ErrorIs(t, err, ErrDeviceNotFound)

	require.NoError(t, svc.DeleteDevice(owner.ID, device.ID))

	_, err = svc.GetOwnedDeviceByID(owner.ID, device.ID)
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestGetDeviceDetail(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	svc := NewDeviceService(db, testConfig())

	owner := createTestBusiness(t, db, "owner@acme.com")
	building := createTestBuilding(t, db, owner.ID, nil)
	device := createTestDevice(t, db, building.ID, "SN-0001", true)

	detail, err := svc.GetDeviceDetail(device.ID)
	require.NoError(t, err)
	assert.Equal(t, device.SerialNumber, detail.SerialNumber)
	assert.Equal(t, building.Name, detail.BuildingName)
	assert.Equal(t, owner.BusinessName, detail.BusinessName)
}
