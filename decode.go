// FILE: fennec-dl/config/decode.go
package config

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Scan decodes the subtree at basePath (the whole tree when empty) into target,
// which must be a non-nil pointer. Struct fields are matched by their yaml tag.
func Scan(t Tree, basePath string, target any) error {
	// Validate target
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}

	// Navigate to basePath section
	var section any = t.ToMap()
	basePath = strings.TrimSuffix(strings.TrimSpace(basePath), ".")
	if basePath != "" {
		value, err := t.Get(basePath)
		if err != nil {
			return err
		}
		section = plainValue(value)
	}

	// Ensure we have a map to decode
	sectionMap, ok := section.(map[string]any)
	if !ok {
		return fmt.Errorf("path %q refers to non-map value (%s)", basePath, typeName(section))
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
		ZeroFields:       true,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("decode failed for path %q: %w", basePath, err)
	}

	return nil
}

// decodeHook returns the composite decode hook for the string-typed values a
// document cannot express natively.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		stringToURLHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
	)
}

// stringToURLHookFunc handles url.URL conversion
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(url.URL{}) && t != reflect.TypeOf(&url.URL{}) {
			return data, nil
		}

		str := data.(string)
		if str == "" {
			return nil, nil
		}

		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}

		if t == reflect.TypeOf(url.URL{}) {
			return *u, nil
		}
		return u, nil
	}
}
