// Package identity modela al usuario que ejecuta una operación y sus permisos.
package identity

import "context"

// Nombres de permisos reconocidos por los flujos de inventario.
const (
	PermCreatePurchaseOrder   = "create_purchase_order"
	PermViewPurchaseOrder     = "view_purchase_order"
	PermEditPurchaseOrder     = "edit_purchase_order"
	PermDeletePurchaseOrder   = "delete_purchase_order"
	PermCreateSale            = "create_sale"
	PermViewSale              = "view_sale"
	PermEditSale              = "edit_sale"
	PermDeleteSale            = "delete_sale"
	PermCreateSaleReturn      = "create_sale_return"
	PermViewSaleReturn        = "view_sale_return"
	PermDeleteSaleReturn      = "delete_sale_return"
	PermViewStock             = "view_stock"
	PermCreateStockAdjustment = "create_stock_adjustment"
	PermViewItem              = "view_item"
)

// AllPermissions lista en orden estable todos los permisos (semilla).
func AllPermissions() []string {
	return []string{
		PermCreatePurchaseOrder, PermViewPurchaseOrder, PermEditPurchaseOrder, PermDeletePurchaseOrder,
		PermCreateSale, PermViewSale, PermEditSale, PermDeleteSale,
		PermCreateSaleReturn, PermViewSaleReturn, PermDeleteSaleReturn,
		PermViewStock, PermCreateStockAdjustment, PermViewItem,
	}
}

// Actor identidad que realiza la operación. Se pasa explícitamente a cada caso de uso.
type Actor struct {
	UserID      int64
	Username    string
	Permissions map[string]struct{}
}

// NewActor construye un Actor con su conjunto de permisos.
func NewActor(userID int64, username string, perms []string) Actor {
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return Actor{UserID: userID, Username: username, Permissions: set}
}

// HasPermission indica si el actor tiene el permiso name.
func (a Actor) HasPermission(name string) bool {
	if a.Permissions == nil {
		return false
	}
	_, ok := a.Permissions[name]
	return ok
}

type ctxKey struct{}

// WithActor adjunta el actor al contexto.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext recupera el actor, si existe.
func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}
