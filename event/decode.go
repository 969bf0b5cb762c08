// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package event // import "github.com/politepol/crawllog/event"

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/politepol/crawllog/severity"
)

// FromMap decodes a loosely typed event dictionary, such as one line of a JSON
// log stream, into a Raw event. Keys that are not Raw fields are kept as
// format arguments.
func FromMap(m map[string]any) (Raw, error) {
	var raw Raw
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			spiderNameHook,
			levelNumberHook,
			mapstructure.TextUnmarshallerHookFunc(),
		),
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if err != nil {
		return Raw{}, err
	}
	if err := dec.Decode(m); err != nil {
		return Raw{}, fmt.Errorf("decode event: %w", err)
	}
	return raw, nil
}

// spiderNameHook lets a spider be given by its bare name.
func spiderNameHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(Spider{}) {
		return data, nil
	}
	return map[string]any{"name": data}, nil
}

// levelNumberHook decodes a json.Number level as an integer. Like any other
// integer, a level without a name is accepted.
func levelNumberHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	n, ok := data.(json.Number)
	if !ok || to != reflect.TypeOf(severity.Level(0)) {
		return data, nil
	}
	i, err := n.Int64()
	if err != nil {
		return data, nil
	}
	return i, nil
}
