package bookingserver

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestNewRouter_MiddlewareRecordsServerSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	f := newAPIFixture(t, RouterOptions{
		Middleware: []gin.HandlerFunc{otelgin.Middleware("booking-api", otelgin.WithTracerProvider(provider))},
	})

	rec := f.do(t, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/excursion-orders/all-orders", nil, adminHeaders())
	require.Equal(t, http.StatusOK, rec.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	for _, span := range spans {
		require.Equal(t, trace.SpanKindServer, span.SpanKind())
	}
}

func TestNewRouter_MiddlewareRunsBeforeRouteHandlers(t *testing.T) {
	var ran []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			ran = append(ran, name)
			c.Next()
		}
	}
	f := newAPIFixture(t, RouterOptions{Middleware: []gin.HandlerFunc{mark("first"), mark("second")}})

	rec := f.do(t, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"first", "second"}, ran)
}
