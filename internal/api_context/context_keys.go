package api_context

import "context"

type ctxKey string

const (
	IDKey        ctxKey = "id"
	AuthEmailKey ctxKey = "authEmail"
	AuthNameKey  ctxKey = "authName"
	ClientIPKey  ctxKey = "clientIP"
)

func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(IDKey).(string)
	return id, ok && id != ""
}

func AuthEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(AuthEmailKey).(string)
	return email, ok && email != ""
}

func AuthNameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(AuthNameKey).(string)
	return name, ok && name != ""
}

func ClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(ClientIPKey).(string)
	return ip
}

// WithAuth returns a copy of ctx carrying the authenticated admin identity.
func WithAuth(ctx context.Context, email, name string) context.Context {
	ctx = context.WithValue(ctx, AuthEmailKey, email)
	return context.WithValue(ctx, AuthNameKey, name)
}
