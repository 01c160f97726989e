package rbac

import "github.com/jwalitptl/practice-api/internal/model"

// Permission names.
const (
	PermUsersManage         = "users:manage"
	PermUsersRead           = "users:read"
	PermPsychologistsManage = "psychologists:manage"
	PermRoomsManage         = "rooms:manage"
	PermRoomsRead           = "rooms:read"
	PermAppointmentsManage  = "appointments:manage"
	PermAppointmentsRead    = "appointments:read"
	PermRoomBookingsManage  = "room_bookings:manage"
	PermFinanceManage       = "finance:manage"
	PermFinanceRead         = "finance:read"
	PermInvoicesSubmit      = "invoices:submit"
	PermInvoicesReview      = "invoices:review"
	PermPatientsManage      = "patients:manage"
	PermPatientsRead        = "patients:read"
	PermCalendarSync        = "calendar:sync"
	PermPermissionsManage   = "permissions:manage"
)

// DefaultPermissions describes every permission SeedDefaults creates.
var DefaultPermissions = []model.NewPermission{
	{Name: PermUsersManage, Description: "Create, deactivate and delete users"},
	{Name: PermUsersRead, Description: "View users"},
	{Name: PermPsychologistsManage, Description: "Manage psychologist profiles and rates"},
	{Name: PermRoomsManage, Description: "Create and remove rooms"},
	{Name: PermRoomsRead, Description: "View rooms and their agenda"},
	{Name: PermAppointmentsManage, Description: "Book, confirm and cancel appointments"},
	{Name: PermAppointmentsRead, Description: "View appointments"},
	{Name: PermRoomBookingsManage, Description: "Book and release rooms"},
	{Name: PermFinanceManage, Description: "Record and delete transactions"},
	{Name: PermFinanceRead, Description: "View transactions and balances"},
	{Name: PermInvoicesSubmit, Description: "Submit monthly invoices"},
	{Name: PermInvoicesReview, Description: "Approve submitted invoices"},
	{Name: PermPatientsManage, Description: "Create and remove patients"},
	{Name: PermPatientsRead, Description: "View patients"},
	{Name: PermCalendarSync, Description: "Sync appointments with Google Calendar"},
	{Name: PermPermissionsManage, Description: "Grant and revoke role permissions"},
}

// DefaultGrants lists each role's permissions in full. Roles do not inherit.
var DefaultGrants = map[model.Role][]string{
	model.RoleAdmin: {
		PermUsersManage, PermUsersRead, PermPsychologistsManage, PermRoomsManage, PermRoomsRead,
		PermAppointmentsManage, PermAppointmentsRead, PermRoomBookingsManage, PermFinanceManage,
		PermFinanceRead, PermInvoicesSubmit, PermInvoicesReview, PermPatientsManage, PermPatientsRead,
		PermCalendarSync, PermPermissionsManage,
	},
	model.RolePsychologist: {
		PermRoomsRead, PermAppointmentsManage, PermAppointmentsRead, PermRoomBookingsManage,
		PermInvoicesSubmit, PermPatientsManage, PermPatientsRead, PermCalendarSync,
	},
	model.RoleReceptionist: {
		PermUsersRead, PermRoomsRead, PermAppointmentsManage, PermAppointmentsRead,
		PermRoomBookingsManage, PermFinanceManage, PermFinanceRead, PermPatientsManage, PermPatientsRead,
	},
}
