package middleware

import "context"

type contextKey string

const (
	ctxUsuario   contextKey = "usuario"
	ctxRole      contextKey = "actor_role"
	ctxTienda    contextKey = "tienda"
	ctxMensajero contextKey = "mensajero"
)

func UsuarioFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUsuario).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// TiendaFromContext returns the store a tienda-role token is restricted to,
// or "" for unrestricted actors.
func TiendaFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxTienda).(string); ok {
		return v
	}
	return ""
}

// MensajeroFromContext returns the courier name a mensajero-role token is
// restricted to, or "" for unrestricted actors.
func MensajeroFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxMensajero).(string); ok {
		return v
	}
	return ""
}

// WithUsuario injects the actor identifier into the context.
func WithUsuario(ctx context.Context, usuario string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUsuario, usuario)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

// WithTienda injects the store restriction into the context.
func WithTienda(ctx context.Context, tienda string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxTienda, tienda)
}

// WithMensajero injects the courier restriction into the context.
func WithMensajero(ctx context.Context, mensajero string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxMensajero, mensajero)
}
