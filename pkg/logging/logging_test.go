package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	t.Run("disabled without debug", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(false, &buf)
		l.Debug().Msg("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("debug writes component", func(t *testing.T) {
		var buf bytes.Buffer
		l := Component(New(true, &buf), "setuppy")
		l.Debug().Msg("reading descriptor")
		assert.Contains(t, buf.String(), "reading descriptor")
		assert.Contains(t, buf.String(), "setuppy")
	})
}

func TestOrNop(t *testing.T) {
	l := OrNop(nil)
	l.Info().Msg("nothing happens")
}
