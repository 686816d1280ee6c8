package observability_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bfcheck/pkg/observability"
)

func TestInit_NoopTracingWithoutEndpoint(t *testing.T) {
	t.Parallel()

	providers, err := observability.Init(observability.DefaultConfig())
	require.NoError(t, err)

	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Logger)
	assert.NotNil(t, providers.Registry)

	ctx, span := providers.Tracer.Start(context.Background(), "bfile.validate")
	span.End()

	assert.NotNil(t, ctx)
	assert.False(t, span.SpanContext().IsValid())

	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInit_LoggerWritesToConfiguredWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	cfg := observability.DefaultConfig()
	cfg.LogWriter = &buf
	cfg.LogJSON = true
	cfg.Environment = "test"
	cfg.ServiceVersion = "1.2.3"

	providers, err := observability.Init(cfg)
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, providers.Shutdown(context.Background())) })

	providers.Logger.WarnContext(context.Background(), "slow file")

	record := decodeRecord(t, &buf)
	assert.Equal(t, "slow file", record["msg"])
	assert.Equal(t, "test", record["env"])
}

func TestParseOTLPHeaders(t *testing.T) {
	t.Parallel()

	assert.Nil(t, observability.ParseOTLPHeaders(""))
	assert.Nil(t, observability.ParseOTLPHeaders("garbage"))
	assert.Equal(t,
		map[string]string{"x-team": "seq", "auth": "token"},
		observability.ParseOTLPHeaders(" x-team = seq ,auth=token"),
	)
}
