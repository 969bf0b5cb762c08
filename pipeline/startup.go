// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline // import "github.com/politepol/crawllog/pipeline"

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/politepol/crawllog/hostlog"
)

// LogStartup publishes the startup banner and the settings that differ from
// their defaults.
func LogStartup(ctx context.Context, pub *hostlog.Publisher, cfg Config, overridden map[string]any) error {
	err := hostlog.Msg(ctx, pub, fmt.Sprintf("crawllog started (bot: %s)", cfg.BotName))
	return multierr.Append(err, hostlog.Msg(ctx, pub, "",
		hostlog.WithFormat("Overridden settings: %(settings)s", map[string]any{
			"settings": formatSettings(overridden),
		})))
}

func formatSettings(settings map[string]any) string {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("'%s': %s", k, settingValue(settings[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// settingValue quotes text values so they read apart from numbers and booleans.
func settingValue(v any) string {
	switch val := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(val, "'", `\'`) + "'"
	case fmt.Stringer:
		return settingValue(val.String())
	}
	return fmt.Sprint(v)
}
