// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package severity defines the ordered log levels shared by every stage of the
// pipeline and the resolution of configured levels given by name or number.
package severity // import "github.com/politepol/crawllog/severity"

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Level is an ordered severity. The numeric values are persisted as trace codes
// and must not change.
type Level int

const (
	Debug    Level = 10
	Info     Level = 20
	Warning  Level = 30
	Error    Level = 40
	Critical Level = 50
	// Silent is only ever used as a filter threshold; no event carries it.
	Silent Level = Critical + 1
)

// ErrInvalidLevel is returned when a level name or number is not recognized.
var ErrInvalidLevel = errors.New("invalid log level")

var levelNames = map[Level]string{
	Debug:    "DEBUG",
	Info:     "INFO",
	Warning:  "WARNING",
	Error:    "ERROR",
	Critical: "CRITICAL",
	Silent:   "SILENT",
}

// Name returns the symbolic name of l and whether l is a known level.
func Name(l Level) (string, bool) {
	name, ok := levelNames[l]
	return name, ok
}

// String returns the level name, or its decimal value when l is not a known level.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return strconv.Itoa(int(l))
}

// Known reports whether l is one of the defined levels.
func (l Level) Known() bool {
	_, ok := levelNames[l]
	return ok
}

// MarshalText marshals Level to text.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText unmarshals text to a Level. Both names and decimal values are accepted.
func (l *Level) UnmarshalText(text []byte) error {
	if l == nil {
		return errors.New("cannot unmarshal to a nil *Level")
	}
	lvl, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

// Parse resolves a level given either as a symbolic name (case-insensitive) or as
// its raw integer value. The result must be one of the defined levels.
func Parse(v any) (Level, error) {
	var n int
	switch val := v.(type) {
	case Level:
		n = int(val)
	case string:
		if lvl, ok := lookupName(val); ok {
			return lvl, nil
		}
		i, err := cast.ToIntE(strings.TrimSpace(val))
		if err != nil || strings.TrimSpace(val) == "" {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, val)
		}
		n = i
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		n = cast.ToInt(val)
	case float32, float64:
		f := cast.ToFloat64(val)
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidLevel, val)
		}
		n = int(f)
	default:
		return 0, fmt.Errorf("%w: %v (%T)", ErrInvalidLevel, v, v)
	}
	lvl := Level(n)
	if !lvl.Known() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLevel, n)
	}
	return lvl, nil
}

func lookupName(s string) (Level, bool) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for lvl, name := range levelNames {
		if name == upper {
			return lvl, true
		}
	}
	return 0, false
}
