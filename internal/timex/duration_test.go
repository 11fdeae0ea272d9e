package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	t.Run("string form", func(t *testing.T) {
		var d Duration
		require.NoError(t, json.Unmarshal([]byte(`"30m"`), &d))
		assert.Equal(t, 30*time.Minute, d.Duration)
	})

	t.Run("integer nanoseconds", func(t *testing.T) {
		var d Duration
		require.NoError(t, json.Unmarshal([]byte(`60000000000`), &d))
		assert.Equal(t, time.Minute, d.Duration)
	})

	t.Run("invalid string", func(t *testing.T) {
		var d Duration
		assert.Error(t, json.Unmarshal([]byte(`"not-a-duration"`), &d))
	})

	t.Run("invalid type", func(t *testing.T) {
		var d Duration
		assert.Error(t, json.Unmarshal([]byte(`true`), &d))
	})
}

func TestDuration_MarshalJSON(t *testing.T) {
	d := Duration{Duration: 90 * time.Second}
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(b))
}
