package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter(t *testing.T) {
	tests := []struct {
		name       string
		level      string
		debugShown bool
	}{
		{"empty level falls back to info", "", false},
		{"unknown level falls back to info", "chatty", false},
		{"debug level", "DEBUG", true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			log := NewWithWriter(out, test.level)

			log.Debug().Msg("debug line")
			log.Info().Msg("info line")

			assert.Equal(t, test.debugShown, bytes.Contains(out.Bytes(), []byte("debug line")))
			assert.Contains(t, out.String(), "info line")
			assert.Contains(t, out.String(), `"service":"carrier-call-relay"`)
		})
	}
}
