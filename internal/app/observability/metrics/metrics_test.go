package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_InitialisesLazily(t *testing.T) {
	m := Get()
	require.NotNil(t, m)
	assert.Same(t, m, Get())

	assert.NotPanics(t, func() {
		ctx := context.Background()
		m.ChatTurnsTotal.Add(ctx, 1)
		m.StructuredParseDuration.Record(ctx, 0.001)
		m.ActiveSessionsGauge.Add(ctx, -1)
	})
}
