package middlewares

import "context"

const sessionIDKey ctxKey = 1

// WithSessionID attaches the admin session id (the token jti).
func WithSessionID(ctx context.Context, jti string) context.Context {
	return context.WithValue(ctx, sessionIDKey, jti)
}

func SessionIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionIDKey).(string)
	return v, ok && v != ""
}
