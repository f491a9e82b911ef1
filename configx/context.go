package configx

import "context"

type contextKey int

const configOptionsKey contextKey = iota + 1

// ContextWithConfigOptions stores modifiers which New applies when given WithContext.
func ContextWithConfigOptions(ctx context.Context, opts ...OptionModifier) context.Context {
	return context.WithValue(ctx, configOptionsKey, append(ConfigOptionsFromContext(ctx), opts...))
}

func ConfigOptionsFromContext(ctx context.Context) []OptionModifier {
	opts, _ := ctx.Value(configOptionsKey).([]OptionModifier)
	return append([]OptionModifier{}, opts...)
}
