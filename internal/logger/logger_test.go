package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, New(&bytes.Buffer{}, false).GetLevel())
	assert.Equal(t, zerolog.DebugLevel, New(&bytes.Buffer{}, true).GetLevel())
}

func TestNew_QuietWithoutDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf, false)

	log.Debug().Msg("request sent")
	log.Info().Msg("sync completed")
	assert.Empty(t, buf.String())

	log.Warn().Msg("something odd")
	assert.Contains(t, buf.String(), "something odd")
}

func TestNew_PlainOutputWhenNotTerminal(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(buf, true)
	log.Debug().Str("stage", "fetch Up transactions").Msg("stage started")

	out := buf.String()
	assert.Contains(t, out, "stage started")
	assert.Contains(t, out, "stage=")
	assert.NotContains(t, out, "\x1b[", "no colour escapes outside a terminal")
}

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)
	log.Debug().Int("status", 200).Msg("http response")

	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"message":"http response"`)
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
