package commands_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/srcom-client/cmd/srcom/commands"
)

func TestLogger(t *testing.T) {
	t.Parallel()

	t.Run("quiet by default", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer

		logger := commands.NewLogger(&out, false, true)
		logger.Debug("cache hit", map[string]interface{}{"key": "games/g1"})
		logger.Info("request", nil)
		assert.Empty(t, out.String())

		logger.Warn("store unavailable", map[string]interface{}{"error": "dial tcp"})
		assert.Contains(t, out.String(), "store unavailable")
		assert.Contains(t, out.String(), "dial tcp")
	})

	t.Run("verbose shows debug", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer

		logger := commands.NewLogger(&out, true, true)
		logger.Debug("cache hit", map[string]interface{}{"key": "games/g1"})
		assert.Contains(t, out.String(), "cache hit")
		assert.Contains(t, out.String(), "games/g1")
	})
}
