package slowlog

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSlowLog(t *testing.T) {
	t.Run("should measure breakpoints", func(t *testing.T) {
		out := &bytes.Buffer{}
		log := zerolog.New(out)
		slowLog := CreateLogger(&log, time.Hour)

		slowLog.Start("outer")
		time.Sleep(1 * time.Millisecond)

		slowLog.Start("inner")
		time.Sleep(1 * time.Millisecond)
		inner := slowLog.Stop("inner")

		outer := slowLog.Stop("outer")

		assert.Equal(t, 0, len(slowLog.ongoingTimers))
		assert.True(t, inner >= time.Millisecond)
		assert.True(t, outer >= 2*time.Millisecond)
		assert.Contains(t, out.String(), `"level":"debug"`)
		assert.NotContains(t, out.String(), `"level":"warn"`)
	})

	t.Run("should warn past the threshold", func(t *testing.T) {
		out := &bytes.Buffer{}
		log := zerolog.New(out)
		slowLog := CreateLogger(&log, time.Millisecond)

		slowLog.Start("upstream:trigger")
		time.Sleep(2 * time.Millisecond)
		slowLog.Stop("upstream:trigger")

		assert.Contains(t, out.String(), `"level":"warn"`)
		assert.Contains(t, out.String(), `"breakpoint_name":"upstream:trigger"`)
		assert.Contains(t, out.String(), `"label":"slowlog"`)
	})

	t.Run("should ignore unknown breakpoints", func(t *testing.T) {
		out := &bytes.Buffer{}
		log := zerolog.New(out)
		slowLog := CreateLogger(&log, 0)

		assert.Equal(t, time.Duration(0), slowLog.Stop("never-started"))
		assert.Empty(t, out.String())
	})
}
