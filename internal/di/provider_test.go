package di_test

import (
	"context"
	"testing"

	"github.com/readysetio/flowcore/internal/di"
	"github.com/readysetio/flowcore/internal/transport"
	"github.com/stretchr/testify/require"
)

func TestNewServiceBuildsFactory(t *testing.T) {
	svc, err := di.NewService(context.Background(), transport.Config{DialTimeout: 0})
	require.NoError(t, err)
	require.NotNil(t, svc.Factory)
}
