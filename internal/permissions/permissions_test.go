package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vkotelnikov/autopark/internal/models"
)

func TestResolve_Admin(t *testing.T) {
	set := Resolve(models.RoleAdmin)

	assert.Equal(t, Set{
		CanCreate:          true,
		CanRead:            true,
		CanUpdate:          true,
		CanDelete:          true,
		CanManageUsers:     true,
		CanManagePersonnel: true,
		CanManageVehicles:  true,
		CanManageRoutes:    true,
		CanManageJournal:   true,
		CanViewReports:     true,
		CanGenerateReports: true,
		CanExportData:      true,
		CanConfigureSystem: true,
		CanViewLogs:        true,
		CanBackupRestore:   true,
	}, set)
}

func TestResolve_User(t *testing.T) {
	set := Resolve(models.RoleUser)

	assert.Equal(t, Set{
		CanRead:            true,
		CanUpdate:          true,
		CanManageJournal:   true,
		CanViewReports:     true,
		CanGenerateReports: true,
	}, set)
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "user"} {
		role, err := models.ParseRole(valid)
		assert.NoError(t, err)
		assert.Equal(t, valid, role.String())
	}
	for _, invalid := range []string{"", "Admin", "root", "operator"} {
		_, err := models.ParseRole(invalid)
		assert.ErrorIs(t, err, models.ErrInvalidRole)
	}
}
