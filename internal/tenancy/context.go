package tenancy

import "context"

type principalKey struct{}

// WithPrincipal stores p on ctx for the hop between middleware and handler.
// Services never read it: they take the principal as an argument.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
