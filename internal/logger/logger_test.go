package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConsole(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{name: "info level", debug: false, wantDebug: false},
		{name: "debug level", debug: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(&buf, Options{Debug: tt.debug})
			log.Debug("trace line")
			log.Warnw("unknown attribute", "name", "x")
			require.NoError(t, log.Sync())

			out := buf.String()
			assert.Contains(t, out, "warn unknown attribute")
			assert.Contains(t, out, `"name": "x"`)
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("trace line")))
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{JSON: true})
	log.Infow("rendered", "output", "cxx")
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "rendered", entry["msg"])
	assert.Equal(t, "cxx", entry["output"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Infow("ignored") })
}
