package adapter

import "context"

type ctxKey int

const ctxKeyVerbose ctxKey = iota

// SetVerbose marks the context so adapters dump raw bus traffic at debug
// level.
func SetVerbose(parent context.Context, value bool) context.Context {
	return context.WithValue(parent, ctxKeyVerbose, value)
}

func verbose(ctx context.Context) bool {
	val := ctx.Value(ctxKeyVerbose)
	if val == nil {
		return false
	}
	return val.(bool)
}
