/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/carverauto/telemetry-dashboard/pkg/logger"
	"github.com/carverauto/telemetry-dashboard/pkg/models"
)

var (
	// ErrDstMustBeNonNilPointer indicates that the destination must be a non-nil pointer.
	ErrDstMustBeNonNilPointer = errors.New("dst must be a non-nil pointer")
	// ErrDstMustBePointerToStruct indicates that the destination must be a pointer to a struct.
	ErrDstMustBePointerToStruct = errors.New("dst must be a pointer to a struct")
	errUnsupportedFieldKind     = errors.New("unsupported field kind")
)

//nolint:gochecknoglobals // type lookups used by the reflection walker
var (
	durationType       = reflect.TypeOf(time.Duration(0))
	modelsDurationType = reflect.TypeOf(models.Duration(0))
)

// EnvConfigLoader loads configuration from environment variables.
// Nested struct fields are joined with underscores, so with prefix
// "DASHBOARD_" the field `nats.subject` is read from DASHBOARD_NATS_SUBJECT.
type EnvConfigLoader struct {
	logger logger.Logger
	prefix string
}

// NewEnvConfigLoader creates a new environment variable config loader.
func NewEnvConfigLoader(log logger.Logger, prefix string) *EnvConfigLoader {
	return &EnvConfigLoader{
		logger: log,
		prefix: prefix,
	}
}

// Load implements ConfigLoader by reading from environment variables.
// A complete JSON document in <prefix>CONFIG_JSON takes precedence.
func (e *EnvConfigLoader) Load(_ context.Context, _ string, dst interface{}) error {
	if jsonConfig := os.Getenv(e.prefix + "CONFIG_JSON"); jsonConfig != "" {
		if err := json.Unmarshal([]byte(jsonConfig), dst); err != nil {
			return fmt.Errorf("failed to unmarshal CONFIG_JSON: %w", err)
		}

		e.logger.Info().Msg("Loaded configuration from CONFIG_JSON environment variable")

		return nil
	}

	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrDstMustBeNonNilPointer
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return ErrDstMustBePointerToStruct
	}

	if _, err := e.loadStruct(v, e.prefix); err != nil {
		return err
	}

	e.logger.Debug().Str("prefix", e.prefix).Msg("Loaded configuration from environment variables")

	return nil
}

// loadStruct fills v from the environment and reports whether any field was set.
func (e *EnvConfigLoader) loadStruct(v reflect.Value, prefix string) (bool, error) {
	t := v.Type()
	anySet := false

	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		jsonTag := fieldType.Tag.Get("json")
		if jsonTag == "" || jsonTag == "-" {
			continue
		}

		envName := prefix + strings.ToUpper(strings.Split(jsonTag, ",")[0])

		set, err := e.setField(field, envName)
		if err != nil {
			return anySet, err
		}

		anySet = anySet || set
	}

	return anySet, nil
}

func (e *EnvConfigLoader) setField(field reflect.Value, envName string) (bool, error) {
	switch {
	case field.Kind() == reflect.Struct:
		return e.loadStruct(field, envName+"_")
	case field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct:
		// Pointers stay nil unless something below them is configured.
		fresh := reflect.New(field.Type().Elem())
		if !field.IsNil() {
			fresh.Elem().Set(field.Elem())
		}

		set, err := e.loadStruct(fresh.Elem(), envName+"_")
		if err != nil || !set {
			return false, err
		}

		field.Set(fresh)

		return true, nil
	}

	envValue, ok := os.LookupEnv(envName)
	if !ok || envValue == "" {
		return false, nil
	}

	if err := setFieldByKind(field, envName, envValue); err != nil {
		return false, err
	}

	e.logger.Debug().Str("env", envName).Msg("Loaded value from environment variable")

	return true, nil
}

func setFieldByKind(field reflect.Value, envName, envValue string) error {
	if field.Type() == durationType || field.Type() == modelsDurationType {
		d, err := time.ParseDuration(envValue)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %w", envName, err)
		}

		field.SetInt(int64(d))

		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(envValue)
	case reflect.Bool:
		b, err := strconv.ParseBool(envValue)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %w", envName, err)
		}

		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(envValue, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %w", envName, err)
		}

		field.SetInt(i)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(envValue, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %w", envName, err)
		}

		field.SetFloat(f)
	case reflect.Slice, reflect.Map:
		ptr := reflect.New(field.Type())
		if err := json.Unmarshal([]byte(envValue), ptr.Interface()); err != nil {
			return fmt.Errorf("invalid JSON value for %s: %w", envName, err)
		}

		field.Set(ptr.Elem())
	default:
		return fmt.Errorf("%w: %s for %s", errUnsupportedFieldKind, field.Kind(), envName)
	}

	return nil
}
