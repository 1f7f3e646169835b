package auth

import "sahone-backend/internal/models"

type Permission = string

const (
	PermManageMenu     Permission = "manage_menu"
	PermManageOrders   Permission = "manage_orders"
	PermManageUsers    Permission = "manage_users"
	PermManageDelivery Permission = "manage_delivery"
	PermManageOffers   Permission = "manage_offers"
	PermViewReports    Permission = "view_reports"
	PermManageSettings Permission = "manage_settings"

	// PermAll grants every permission.
	PermAll Permission = "all"
)

func AllPermissions() []string {
	return []string{
		PermManageMenu,
		PermManageOrders,
		PermManageUsers,
		PermManageDelivery,
		PermManageOffers,
		PermViewReports,
		PermManageSettings,
	}
}

func HasPermission(perms []string, required Permission) bool {
	for _, p := range perms {
		if p == required || p == PermAll {
			return true
		}
	}
	return false
}

// BootstrapRole picks the role for an email that has no account yet.
func BootstrapRole(adminEmails, deliveryEmails []string, email string) models.UserRole {
	for _, e := range adminEmails {
		if e == email {
			return models.RoleAdmin
		}
	}
	for _, e := range deliveryEmails {
		if e == email {
			return models.RoleDelivery
		}
	}
	return models.RoleUser
}
