// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package severity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdering(t *testing.T) {
	assert.Less(t, Debug, Info)
	assert.Less(t, Info, Warning)
	assert.Less(t, Warning, Error)
	assert.Less(t, Error, Critical)
	assert.Equal(t, Critical+1, Silent)
}

func TestParse(t *testing.T) {
	tests := []struct {
		in    any
		level Level
		err   bool
	}{
		{in: "DEBUG", level: Debug},
		{in: "info", level: Info},
		{in: "Warning", level: Warning},
		{in: "ERROR", level: Error},
		{in: "CRITICAL", level: Critical},
		{in: "SILENT", level: Silent},
		{in: "40", level: Error},
		{in: 20, level: Info},
		{in: int64(50), level: Critical},
		{in: float64(30), level: Warning},
		{in: Error, level: Error},
		{in: "VERBOSE", err: true},
		{in: "", err: true},
		{in: 15, err: true},
		{in: 20.5, err: true},
		{in: true, err: true},
		{in: nil, err: true},
		{in: []string{"INFO"}, err: true},
	}

	for _, tt := range tests {
		lvl, err := Parse(tt.in)
		if tt.err {
			require.ErrorIs(t, err, ErrInvalidLevel, "input %#v", tt.in)
			continue
		}
		require.NoError(t, err, "input %#v", tt.in)
		assert.Equal(t, tt.level, lvl)
	}
}

func TestUnmarshalText(t *testing.T) {
	var lvl Level
	require.NoError(t, lvl.UnmarshalText([]byte("warning")))
	assert.Equal(t, Warning, lvl)

	require.NoError(t, lvl.UnmarshalText([]byte("10")))
	assert.Equal(t, Debug, lvl)

	assert.Error(t, lvl.UnmarshalText([]byte("loud")))
	assert.Equal(t, Debug, lvl, "failed unmarshal must not modify the level")
}

func TestUnmarshalTextNilLevel(t *testing.T) {
	lvl := (*Level)(nil)
	assert.Error(t, lvl.UnmarshalText([]byte("INFO")))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "CRITICAL", Critical.String())
	assert.Equal(t, "25", Level(25).String())

	name, ok := Name(Level(25))
	assert.False(t, ok)
	assert.Empty(t, name)

	text, err := Info.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "INFO", string(text))
}
