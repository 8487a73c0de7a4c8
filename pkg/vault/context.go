package vault

import "context"

type ctxKey struct{}

// WithCipher stores the cipher used by model hooks in ctx.
func WithCipher(ctx context.Context, c SymmetricCipher) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the cipher stored by WithCipher, if any.
func FromContext(ctx context.Context) (SymmetricCipher, bool) {
	c, ok := ctx.Value(ctxKey{}).(SymmetricCipher)
	return c, ok && c != nil
}
