package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetup_Levels(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	assert.Equal(t, zerolog.DebugLevel, Setup(" DEBUG ", false))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	assert.Equal(t, zerolog.WarnLevel, Setup("warn", true))
	assert.Equal(t, zerolog.InfoLevel, Setup("loud", true))
	assert.Equal(t, zerolog.InfoLevel, Setup("", false))
}
