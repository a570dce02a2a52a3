package sl

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("prod writes json and skips debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger("prod", &buf)

		log.Debug("hidden")
		log.Info("visible")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "visible", entry["msg"])
	})

	t.Run("local writes debug text", func(t *testing.T) {
		var buf bytes.Buffer
		newLogger("local", &buf).Debug("details")

		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), "msg=details")
	})
}
