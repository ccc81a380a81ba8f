package services

import (
	"testing"

	"gasguard-http-service/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignBuildings(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	svc := NewEmergencyServiceService(pool, testConfig())

	owner := createTestBusiness(t, db, "owner@acme.com")
	responder := createTestEmergencyService(t, db, "fire@city.gov")
	b1 := createTestBuilding(t, db, owner.ID, nil)
	b2 := createTestBuilding(t, db, owner.ID, nil)

	require.NoError(t, svc.AssignBuildings(responder.ID, []uint{b1.ID, b2.ID}))

	assigned, err := svc.GetAssignedBuildings(responder.ID)
	require.NoError(t, err)
	assert.Len(t, assigned, 2)
}

func TestAssignBuildingsMissingIDs(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	svc := NewEmergencyServiceService(pool, testConfig())

	owner := createTestBusiness(t, db, "owner@acme.com")
	responder := createTestEmergencyService(t, db, "fire@city.gov")
	b1 := createTestBuilding(t, db, owner.ID, nil)

	err := svc.AssignBuildings(responder.ID, []uint{b1.ID, b1.ID + 100})
	var missingErr *MissingBuildingsError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []uint{b1.ID + 100}, missingErr.MissingIDs)

	// 整体失败，不做部分指派
	var building models.Building
	require.NoError(t, db.First(&building, b1.ID).Error)
	assert.Nil(t, building.EmergencyServiceID)
}

func TestAssignBuildingsEmptyList(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	svc := NewEmergencyServiceService(pool, testConfig())

	responder := createTestEmergencyService(t, db, "fire@city.gov")

	err := svc.AssignBuildings(responder.ID, nil)
	assert.ErrorIs(t, err, ErrEmptyBuildingList)
}

func TestDeleteServiceWithBuildings(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	svc := NewEmergencyServiceService(pool, testConfig())

	owner := createTestBusiness(t, db, "owner@acme.com")
	responder := createTestEmergencyService(t, db, "fire@city.gov")
	building := createTestBuilding(t, db, owner.ID, &responder.ID)

	err := svc.DeleteService(responder.ID)
	assert.ErrorIs(t, err, ErrServiceHasBuildings)

	// 建筑解绑后允许删除
	require.NoError(t, db.Model(&models.Building{}).
		Where("id = ?", building.ID).
		Update("emergency_service_id", nil).Error)
	require.NoError(t, svc.DeleteService(responder.ID))

	_, err = svc.GetServiceByID(responder.ID)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCreateServiceHashesPassword(t *testing.T) {
	pool := setupTestDB(t)
	svc := NewEmergencyServiceService(pool, testConfig())

	service := &models.EmergencyService{
		Name:         "City Fire Dept",
		ContactPhone: "119",
		Email:        "fire@city.gov",
		Password:     "Secret@123",
	}
	require.NoError(t, svc.CreateService(service))
	assert.NotEqual(t, "Secret@123", service.Password)

	// 邮箱重复拒绝
	err := svc.CreateService(&models.EmergencyService{
		Name:     "Another",
		Email:    "fire@city.gov",
		Password: "Secret@123",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestGetAssignedBuildingByID(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	svc := NewEmergencyServiceService(pool, testConfig())

	owner := createTestBusiness(t, db, "owner@acme.com")
	responder := createTestEmergencyService(t, db, "fire@city.gov")
	outsider := createTestEmergencyService(t, db, "other@city.gov")
	building := createTestBuilding(t, db, owner.ID, &responder.ID)

	got, err := svc.GetAssignedBuildingByID(responder.ID, building.ID)
	require.NoError(t, err)
	assert.Equal(t, building.ID, got.ID)

	// 未指派给自己的建筑按不存在处理
	_, err = svc.GetAssignedBuildingByID(outsider.ID, building.ID)
	assert.ErrorIs(t, err, ErrBuildingNotFound)
}
