package services

import (
	"testing"

	"gasguard-http-service/internal/domain/models"
	"gasguard-http-service/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAdministrator(t *testing.T) {
	pool := setupTestDB(t)
	svc := NewAdminService(pool.GetDB(), testConfig())

	admin := &models.Administrator{
		Email:    "root@gasguard.local",
		Password: "Secret@123",
		Name:     "Root",
	}
	require.NoError(t, svc.CreateAdministrator(admin))
	assert.True(t, utils.CheckPasswordHash("Secret@123", admin.Password))

	err := svc.CreateAdministrator(&models.Administrator{
		Email:    "root@gasguard.local",
		Password: "Another@123",
		Name:     "Dup",
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestDeleteAdministratorSelf(t *testing.T) {
	pool := setupTestDB(t)
	svc := NewAdminService(pool.GetDB(), testConfig())

	admin := &models.Administrator{Email: "root@gasguard.local", Password: "Secret@123", Name: "Root"}
	require.NoError(t, svc.CreateAdministrator(admin))
	target := &models.Administrator{Email: "second@gasguard.local", Password: "Secret@123", Name: "Second"}
	require.NoError(t, svc.CreateAdministrator(target))

	// 不能删除自己
	err := svc.DeleteAdministrator(admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrSelfDelete)

	require.NoError(t, svc.DeleteAdministrator(admin.ID, target.ID))

	err = svc.DeleteAdministrator(admin.ID, target.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestEnsureDefaultAdmin(t *testing.T) {
	pool := setupTestDB(t)
	cfg := testConfig()
	svc := NewAdminService(pool.GetDB(), cfg)

	require.NoError(t, svc.EnsureDefaultAdmin())

	admins, err := svc.GetAllAdministrators()
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, cfg.DefaultAdminEmail, admins[0].Email)
	assert.True(t, utils.CheckPasswordHash(cfg.DefaultAdminPassword, admins[0].Password))

	// 已有账号时不重复播种
	require.NoError(t, svc.EnsureDefaultAdmin())
	admins, err = svc.GetAllAdministrators()
	require.NoError(t, err)
	assert.Len(t, admins, 1)
}
