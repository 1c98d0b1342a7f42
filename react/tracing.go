// Tracing instrumentation for the agent loop.
package react

import (
	"context"

	"github.com/vinayprograms/agentkit/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// startRunSpan starts a span covering one Run invocation.
func (a *Agent) startRunSpan(ctx context.Context) (context.Context, trace.Span) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartSpan(ctx, "agent.run")
	span.SetAttributes(
		attribute.String("agent.name", a.name),
	)
	return ctx, span
}

// endRunSpan records the run outcome. The span itself is ended by the
// deferred End in Run.
func (a *Agent) endRunSpan(span trace.Span, status string, err error) {
	span.SetAttributes(attribute.String("agent.status", status))
	if err != nil {
		span.RecordError(err)
	}
}

// startToolSpan starts a span for one tool execution.
func (a *Agent) startToolSpan(ctx context.Context, toolName string) (context.Context, trace.Span) {
	tracer := telemetry.GetTracer()
	ctx, span := tracer.StartSpan(ctx, "tool."+toolName)
	span.SetAttributes(attribute.String("tool.name", toolName))
	return ctx, span
}

// endToolSpan ends the tool span with error info.
func (a *Agent) endToolSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
