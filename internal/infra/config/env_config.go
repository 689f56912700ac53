package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidConfig is returned when the provided config is not a pointer to a struct
	// that embeds EnvConfig.
	ErrInvalidConfig = errors.New("config must be a pointer to a struct embedding EnvConfig")

	// ErrVarNotSet is returned when a required environment variable is not set and has no default.
	ErrVarNotSet = errors.New("env var not set")

	// ErrUnsupportedVarType is returned when trying to parse an environment variable
	// into an unsupported Go type.
	ErrUnsupportedVarType = errors.New("unsupported env var type")
)

//nolint:gochecknoglobals
var (
	envConfigType = reflect.TypeOf(EnvConfig{}) //nolint:exhaustruct
	durationType  = reflect.TypeOf(time.Duration(0))
)

// EnvConfig is a base type that must be embedded in configuration structs
// to enable environment variable parsing.
type EnvConfig struct {
	namespace string
}

// Namespace returns the prefix the config was parsed with.
func (c EnvConfig) Namespace() string {
	return c.namespace
}

//nolint:varnamelen
func getEnvConfig(cfg any) (*EnvConfig, error) {
	v := reflect.ValueOf(cfg)

	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return nil, ErrInvalidConfig
	}

	v = v.Elem()

	for i := range v.NumField() {
		field := v.Type().Field(i)
		if !field.Anonymous || field.Type != envConfigType {
			continue
		}

		//nolint:forcetypeassert
		return v.Field(i).Addr().Interface().(*EnvConfig), nil
	}

	return nil, ErrInvalidConfig
}

// Parse loads configuration values from environment variables into the provided struct.
// The struct must embed EnvConfig and use `env` tags to specify variable names.
// The namespace is tried as a prefix from most to least specific: for namespace
// "BOOKSHOP_SERVE" and tag "X" the lookup order is BOOKSHOP_SERVE_X, BOOKSHOP_X, X.
// Supports string, signed integer, bool and time.Duration fields. Nested structs
// extend the prefix with their `envPrefix` tag.
func Parse(ctx context.Context, cfg any, namespace string) error {
	envConfig, err := getEnvConfig(cfg)
	if err != nil {
		return fmt.Errorf("get env config: %w", err)
	}

	envConfig.namespace = namespace

	return parseStruct(candidatePrefixes(namespace), "", reflect.ValueOf(cfg).Elem())
}

func candidatePrefixes(namespace string) []string {
	if namespace == "" {
		return []string{""}
	}

	parts := strings.Split(namespace, "_")
	prefixes := make([]string, 0, len(parts)+1)

	for i := len(parts); i > 0; i-- {
		prefixes = append(prefixes, strings.Join(parts[:i], "_")+"_")
	}

	return append(prefixes, "")
}

func parseStruct(prefixes []string, envPrefix string, v reflect.Value) error {
	t := v.Type()

	for i := range t.NumField() {
		field := t.Field(i)
		value := v.Field(i)

		if field.Type == envConfigType || !field.IsExported() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := parseStruct(prefixes, envPrefix+field.Tag.Get("envPrefix"), value); err != nil {
				return err
			}

			continue
		}

		envTag := field.Tag.Get("env")
		if envTag == "" {
			continue
		}

		raw, err := lookup(prefixes, envPrefix+envTag, field)
		if err != nil {
			return fmt.Errorf("parse field: %w", err)
		}

		if err := setField(value, raw); err != nil {
			return fmt.Errorf("parse field: invalid value for %s: %w", envTag, err)
		}
	}

	return nil
}

func lookup(prefixes []string, name string, field reflect.StructField) (string, error) {
	for _, prefix := range prefixes {
		if value, ok := os.LookupEnv(prefix + name); ok {
			return value, nil
		}
	}

	if value, ok := field.Tag.Lookup("default"); ok {
		return value, nil
	}

	return "", fmt.Errorf("%w: %s", ErrVarNotSet, name)
}

func setField(value reflect.Value, raw string) error {
	if value.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("parse duration: %w", err)
		}

		value.SetInt(int64(d))

		return nil
	}

	//nolint:exhaustive
	switch value.Kind() {
	case reflect.String:
		value.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, value.Type().Bits())
		if err != nil {
			return fmt.Errorf("parse int: %w", err)
		}

		value.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("parse bool: %w", err)
		}

		value.SetBool(b)
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedVarType, value.Kind())
	}

	return nil
}
