package backend

import (
	"context"
	"fmt"

	"github.com/vladislavdragonenkov/snackorders/internal/domain"
)

// ErrActionRequired - запись журнала без тега действия.
var ErrActionRequired = fmt.Errorf("%w: audit action is required", domain.ErrValidation)

type clientIPKey struct{}

// WithClientIP сохраняет IP клиента в контексте запроса.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIPFromContext возвращает IP клиента или "unknown".
func ClientIPFromContext(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok && ip != "" {
		return ip
	}
	return "unknown"
}
