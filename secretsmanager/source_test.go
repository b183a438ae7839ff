package secretsmanager

import (
	"context"
	"testing"

	"github.com/evergreen-ci/cachette/awsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBasicSource(t *testing.T) {
	t.Run("SucceedsWithRegion", func(t *testing.T) {
		s, err := NewBasicSource(*awsutil.NewClientOptions().SetRegion("us-east-1"))
		require.NoError(t, err)
		require.NotZero(t, s)

		assert.NoError(t, s.Close(context.Background()))
	})
	t.Run("FailsWithoutRegion", func(t *testing.T) {
		s, err := NewBasicSource(*awsutil.NewClientOptions())
		assert.Error(t, err)
		assert.Zero(t, s)
	})
}
