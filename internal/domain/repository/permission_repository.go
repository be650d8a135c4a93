package repository

import "context"

// PermissionRepository resuelve los permisos de un usuario (user_roles → role_permissions → permissions).
type PermissionRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]string, error)
}
