package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID holds the authenticated principal's id (string).
	CtxKeyUserID ctxKey = "user_id"
	// CtxKeyRole holds the authenticated principal's role (string).
	CtxKeyRole ctxKey = "role"
)

// ContextWithUser records the authenticated user id and role for downstream
// middleware (rate limiting keys, logging).
func ContextWithUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, userID)
	return context.WithValue(ctx, CtxKeyRole, role)
}

// UserIDFromContext returns the authenticated user id, or "" when anonymous.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
