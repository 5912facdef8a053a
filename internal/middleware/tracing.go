package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bulag/internal/observability"
)

// TracingMiddleware starts a server span for each request and exposes the
// trace ID via c.Locals("traceID") so ContextMiddleware can propagate it.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		span, ctx := observability.NewSpan(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
		)
		defer span.End()

		span.AddAttributes(
			attribute.String("http.method", c.Method()),
			attribute.String("http.route", c.Path()),
			attribute.String("http.client_ip", c.IP()),
		)

		c.Locals("traceID", span.TraceID())
		c.SetUserContext(ctx)

		err := c.Next()

		span.AddAttributes(attribute.Int("http.status_code", c.Response().StatusCode()))
		if err != nil {
			span.SetError(err)
		}
		return err
	}
}
