package services

import (
	"testing"

	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessRegister(t *testing.T) {
	pool := setupTestDB(t)
	svc := NewBusinessService(pool.GetDB(), testConfig())

	business := &models.BusinessUser{
		Email:        "owner@acme.com",
		Password:     "Secret@123",
		BusinessName: "Acme Properties",
	}
	require.NoError(t, svc.Register(business))
	assert.True(t, utils.CheckPasswordHash("Secret@123", business.Password))

	err := svc.Register(&models.BusinessUser{
		Email:        "owner@acme.com",
		Password:     "Another@123",
		BusinessName: "Copycat",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestBusinessRegisterEmailTakenByOtherRole(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	svc := NewBusinessService(db, testConfig())

	// 邮箱被应急服务占用时也要拒绝，否则登录级联会命中错误的表
	createTestEmergencyService(t, db, "fire@city.gov")

	err := svc.Register(&models.BusinessUser{
		Email:        "fire@city.gov",
		Password:     "Secret@123",
		BusinessName: "Acme Properties",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestBlockBusiness(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	svc := NewBusinessService(db, testConfig())

	business := createTestBusiness(t, db, "owner@acme.com")

	blocked, err := svc.BlockBusiness(business.ID)
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked)

	_, err = svc.BlockBusiness(business.ID)
	assert.ErrorIs(t, err, ErrAlreadyBlocked)
}

func TestDeleteBusiness(t *testing.T) {
	pool := setupTestDB(t)
	db := pool.GetDB()
	svc := NewBusinessService(db, testConfig())

	business := createTestBusiness(t, db, "owner@acme.com")
	require.NoError(t, svc.DeleteBusiness(business.ID))

	err := svc.DeleteBusiness(business.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
