package model

// Role is the closed set of user roles. Roles are fixed; there is no
// dynamic privilege table.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleStaff   Role = "STAFF"
	RoleAuditor Role = "AUDITOR"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff, RoleAuditor:
		return true
	}
	return false
}

// Action names a gated operation in the system.
type Action string

const (
	// Product / inventory
	ActionAddProduct     Action = "ADD_PRODUCT"
	ActionEditProduct    Action = "EDIT_PRODUCT"
	ActionDeleteProduct  Action = "DELETE_PRODUCT"
	ActionImportProducts Action = "IMPORT_PRODUCTS"
	ActionApproveProduct Action = "APPROVE_PRODUCT"

	// Stock adjustments
	ActionAdjustStock            Action = "ADJUST_STOCK"
	ActionApproveStockAdjustment Action = "APPROVE_STOCK_ADJUSTMENT"
	ActionViewStockLogs          Action = "VIEW_STOCK_LOGS"
	ActionExportStockLogs        Action = "EXPORT_STOCK_LOGS"

	// Approval queue
	ActionAccessApprovals Action = "ACCESS_APPROVALS"
	ActionProcessApproval Action = "PROCESS_APPROVAL"

	// Procurement
	ActionCreateProcurement  Action = "CREATE_PROCUREMENT"
	ActionApproveProcurement Action = "APPROVE_PROCUREMENT"
	ActionDeleteProcurement  Action = "DELETE_PROCUREMENT"

	// Export (all roles)
	ActionExportData Action = "EXPORT_DATA"

	// Settings
	ActionAccessSettings Action = "ACCESS_SETTINGS"
	ActionDangerZone     Action = "DANGER_ZONE"
)

// Permissions maps each action to the roles allowed to perform it.
var Permissions = map[Action][]Role{
	ActionAddProduct:     {RoleStaff, RoleManager, RoleAdmin},
	ActionEditProduct:    {RoleManager, RoleAdmin},
	ActionDeleteProduct:  {RoleManager, RoleAdmin},
	ActionImportProducts: {RoleStaff, RoleManager, RoleAdmin},
	ActionApproveProduct: {RoleManager, RoleAdmin},

	ActionAdjustStock:            {RoleStaff, RoleManager, RoleAdmin},
	ActionApproveStockAdjustment: {RoleManager, RoleAdmin},
	ActionViewStockLogs:          {RoleStaff, RoleManager, RoleAdmin, RoleAuditor},
	ActionExportStockLogs:        {RoleManager, RoleAdmin, RoleAuditor},

	ActionAccessApprovals: {RoleManager, RoleAdmin},
	ActionProcessApproval: {RoleManager, RoleAdmin},

	ActionCreateProcurement:  {RoleStaff, RoleManager, RoleAdmin},
	ActionApproveProcurement: {RoleManager, RoleAdmin},
	ActionDeleteProcurement:  {RoleManager, RoleAdmin},

	ActionExportData: {RoleStaff, RoleManager, RoleAdmin, RoleAuditor},

	ActionAccessSettings: {RoleManager, RoleAdmin},
	ActionDangerZone:     {RoleManager, RoleAdmin},
}

// CanPerformAction reports whether a role may perform an action.
// An empty role (no session) is never allowed.
func CanPerformAction(role Role, action Action) bool {
	allowed, ok := Permissions[action]
	if !ok {
		return false
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// IsReadOnly reports whether the role can never mutate anything.
func IsReadOnly(role Role) bool {
	return role == RoleAuditor
}

// IsAdminOrManager reports whether the role sits on the approving side
// of the workflow.
func IsAdminOrManager(role Role) bool {
	return role == RoleAdmin || role == RoleManager
}
