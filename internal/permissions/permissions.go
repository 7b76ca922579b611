// Package permissions maps an account role to its fixed capability set.
// The mapping is exhaustive over the two roles and has no other inputs.
package permissions

import "github.com/vkotelnikov/autopark/internal/models"

// Set is the full capability map consumed by callers to enable or disable
// individual application features.
type Set struct {
	CanCreate bool `json:"can_create"`
	CanRead   bool `json:"can_read"`
	CanUpdate bool `json:"can_update"`
	CanDelete bool `json:"can_delete"`

	CanManageUsers     bool `json:"can_manage_users"`
	CanManagePersonnel bool `json:"can_manage_personnel"`
	CanManageVehicles  bool `json:"can_manage_vehicles"`
	CanManageRoutes    bool `json:"can_manage_routes"`
	CanManageJournal   bool `json:"can_manage_journal"`
	CanViewReports     bool `json:"can_view_reports"`
	CanGenerateReports bool `json:"can_generate_reports"`
	CanExportData      bool `json:"can_export_data"`

	CanConfigureSystem bool `json:"can_configure_system"`
	CanViewLogs        bool `json:"can_view_logs"`
	CanBackupRestore   bool `json:"can_backup_restore"`
}

// Resolve returns the capability set for role. Admins get full access;
// regular users can read everything, work with the dispatch journal and
// reports, and nothing else.
func Resolve(role models.Role) Set {
	if role == models.RoleAdmin {
		return Set{
			CanCreate: true,
			CanRead:   true,
			CanUpdate: true,
			CanDelete: true,

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
		}
	}
	return Set{
		CanRead:   true,
		CanUpdate: true, // journal dispatch/return updates only

		CanManageJournal:   true,
		CanViewReports:     true,
		CanGenerateReports: true,
	}
}
