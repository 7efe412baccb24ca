package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"

	"crew-match-workers/internal/common/logger"
)

func TestNew_WithoutJaeger(t *testing.T) {
	o := New(Options{ServiceName: "test-service"}, logger.NewTestLogger(t))
	defer o.Shutdown()

	assert.Nil(t, o.tracerProvider)
	require.NotNil(t, o.tracer)

	ctx := context.Background()
	o.RecordJobProcessed(ctx, "rank-candidates", "completed")
	o.RecordJobDuration(ctx, "rank-candidates", 25*time.Millisecond, "completed")

	spanCtx, span := o.StartSpan(ctx, "match", attribute.Int("candidates", 3))
	assert.NotNil(t, spanCtx)
	EndSpan(span, errors.New("boom"))
}

func TestNilObservability(t *testing.T) {
	var o *Observability

	assert.NotPanics(t, func() {
		o.RecordJobProcessed(context.Background(), "fetch-candidates", "failed")
		o.RecordJobDuration(context.Background(), "fetch-candidates", time.Second, "failed")
		_, span := o.StartSpan(context.Background(), "noop")
		EndSpan(span, nil)
		o.Shutdown()
	})
}
