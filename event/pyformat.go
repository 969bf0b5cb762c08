// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package event // import "github.com/politepol/crawllog/event"

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
)

var errBadFormat = errors.New("bad format")

// formatSafe substitutes %(name)X placeholders from args. A template that cannot
// be rendered never fails; it is reported inline instead.
func formatSafe(format string, args map[string]any) string {
	out, err := substitute(format, args)
	if err != nil {
		return fmt.Sprintf("Invalid format string or unformattable object in log message: %q", format)
	}
	return out
}

// substitute renders %(name)<spec><verb> placeholders and %%. The spec takes
// the flags "-+ #0", a width and a precision. Verbs: s r d i u x X o f F e E g
// G c.
func substitute(format string, args map[string]any) (string, error) {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(format) {
			return "", errBadFormat
		}
		if format[i+1] == '%' {
			b.WriteByte('%')
			i++
			continue
		}
		if format[i+1] != '(' {
			return "", errBadFormat
		}
		end := strings.IndexByte(format[i+2:], ')')
		if end < 0 {
			return "", errBadFormat
		}
		name := format[i+2 : i+2+end]
		j := i + 2 + end + 1
		spec, verb, next, ok := parseSpec(format, j)
		if !ok {
			return "", errBadFormat
		}
		val, found := args[name]
		if !found {
			return "", fmt.Errorf("%w: missing key %q", errBadFormat, name)
		}
		out, err := render(spec, verb, val)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
		i = next - 1
	}
	return b.String(), nil
}

// conversion is the part of a placeholder between ")" and the verb.
type conversion struct {
	flags     string
	width     string
	precision string
	hasPrec   bool
}

// parseSpec reads flags, width, precision and the verb starting at format[j].
// next is the index following the verb.
func parseSpec(format string, j int) (spec conversion, verb byte, next int, ok bool) {
	start := j
	for j < len(format) && strings.IndexByte("-+ #0", format[j]) >= 0 {
		j++
	}
	spec.flags = format[start:j]
	start = j
	for j < len(format) && isDigit(format[j]) {
		j++
	}
	spec.width = format[start:j]
	if j < len(format) && format[j] == '.' {
		j++
		start = j
		for j < len(format) && isDigit(format[j]) {
			j++
		}
		spec.precision = format[start:j]
		if spec.precision == "" {
			spec.precision = "0"
		}
		spec.hasPrec = true
	}
	if j >= len(format) {
		return spec, 0, 0, false
	}
	return spec, format[j], j + 1, true
}

// keep drops the flags not listed in allowed.
func keep(flags, allowed string) string {
	var b strings.Builder
	for i := 0; i < len(flags); i++ {
		if strings.IndexByte(allowed, flags[i]) >= 0 {
			b.WriteByte(flags[i])
		}
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (c conversion) verb(flags string, v byte) string {
	s := "%" + flags + c.width
	if c.hasPrec {
		s += "." + c.precision
	}
	return s + string(v)
}

func render(spec conversion, verb byte, val any) (string, error) {
	switch verb {
	case 's':
		return fmt.Sprintf(spec.verb(keep(spec.flags, "-"), 's'), fmt.Sprint(val)), nil
	case 'r':
		return fmt.Sprintf(spec.verb(keep(spec.flags, "-"), 's'), repr(val)), nil
	case 'd', 'i', 'u':
		n, err := cast.ToInt64E(val)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(spec.verb(keep(spec.flags, "-+ 0"), 'd'), n), nil
	case 'x', 'X', 'o':
		n, err := cast.ToInt64E(val)
		if err != nil {
			return "", err
		}
		flags := spec.flags
		if verb == 'o' && strings.Contains(flags, "#") {
			// 0o17 rather than 017
			flags = strings.ReplaceAll(flags, "#", "")
			verb = 'O'
		}
		return fmt.Sprintf(spec.verb(flags, verb), n), nil
	case 'f', 'F', 'e', 'E', 'g', 'G':
		f, err := cast.ToFloat64E(val)
		if err != nil {
			return "", err
		}
		if !spec.hasPrec {
			spec.precision, spec.hasPrec = "6", true
		}
		if verb == 'F' {
			verb = 'f'
		}
		return fmt.Sprintf(spec.verb(spec.flags, verb), f), nil
	case 'c':
		if s, ok := val.(string); ok {
			if utf8.RuneCountInString(s) != 1 {
				return "", fmt.Errorf("%w: %%c requires a single character", errBadFormat)
			}
			return fmt.Sprintf(spec.verb(keep(spec.flags, "-"), 's'), s), nil
		}
		n, err := cast.ToInt32E(val)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(spec.verb(keep(spec.flags, "-"), 'c'), rune(n)), nil
	}
	return "", fmt.Errorf("%w: verb %q", errBadFormat, verb)
}

func repr(v any) string {
	if s, ok := v.(string); ok {
		return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
	}
	return fmt.Sprintf("%v", v)
}
