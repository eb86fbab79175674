// Package config holds the configuration of the interpreter and the
// playground server, loaded from JSON5 files.
package config

import (
	"io"
	"reflect"
	"time"

	"github.com/flynn/json5"
	multierror "github.com/hashicorp/go-multierror"

	"go.skia.org/lambent/go/config"
	"go.skia.org/lambent/go/skerr"
	"go.skia.org/lambent/go/util"
)

const (
	// DefaultResultBinding is the name of the binding that holds the result
	// of a program.
	DefaultResultBinding = "result"

	// DefaultTimeout bounds a single run.
	DefaultTimeout = 5 * time.Second

	// DefaultCacheSize is the number of parsed programs kept in memory.
	DefaultCacheSize = 256
)

// Duration allows us to supply a duration as a human readable string.
type Duration = config.Duration

// InterpreterConfig controls how programs are run.
type InterpreterConfig struct {
	// ResultBinding names the global whose value is reported after a run.
	ResultBinding string `json:"result_binding" optional:"true"`

	// MaxStackDepth limits the evaluator's continuation stack. 0 means the
	// evaluator's default.
	MaxStackDepth int `json:"max_stack_depth" optional:"true"`

	// Timeout bounds a single run, e.g. "5s".
	Timeout Duration `json:"timeout" optional:"true"`

	// CacheSize is the number of parsed programs to cache.
	CacheSize int `json:"cache_size" optional:"true"`

	// NoBuiltins skips loading the builtin definitions. Programs that use
	// relational operators then fail.
	NoBuiltins bool `json:"no_builtins"`
}

// PlaygroundConfig is the configuration of the playground server.
type PlaygroundConfig struct {
	InterpreterConfig

	// Port to listen on, e.g. ":8000".
	Port string `json:"port"`

	// MaxRequestBytes limits the size of a request body.
	MaxRequestBytes int64 `json:"max_request_bytes" optional:"true"`

	// AllowedOrigins lists the origins that may call the API from a browser.
	// Empty allows every origin.
	AllowedOrigins []string `json:"allowed_origins" optional:"true"`
}

// DefaultInterpreterConfig returns the configuration used when no file is
// given.
func DefaultInterpreterConfig() InterpreterConfig {
	return InterpreterConfig{
		ResultBinding: DefaultResultBinding,
		Timeout:       Duration{Duration: DefaultTimeout},
		CacheSize:     DefaultCacheSize,
	}
}

// DefaultPlaygroundConfig returns the configuration used when no file is
// given.
func DefaultPlaygroundConfig() PlaygroundConfig {
	return PlaygroundConfig{
		InterpreterConfig: DefaultInterpreterConfig(),
		Port:              ":8000",
		MaxRequestBytes:   1 << 20,
	}
}

// LoadFromJSON5 reads the contents of path and decodes the JSON5 there into
// dst, which should already hold the defaults. dst must be a pointer to a
// struct with "json" struct tags for all fields. An error will be returned if
// any non-struct, non-bool field is its zero value after decoding *unless* it
// is tagged with `optional:"true"`.
func LoadFromJSON5(dst interface{}, path string) error {
	// Elem() dereferences a pointer or panics.
	rType := reflect.TypeOf(dst).Elem()
	if rType.Kind() != reflect.Struct {
		return skerr.Fmt("Input must be a pointer to a struct, got %T", dst)
	}
	err := util.WithReadFile(path, func(r io.Reader) error {
		return json5.NewDecoder(r).Decode(dst)
	})
	if err != nil {
		return skerr.Wrapf(err, "reading config at %s", path)
	}
	return checkRequired(reflect.Indirect(reflect.ValueOf(dst)))
}

// checkRequired returns an error listing every non-struct, non-bool field of
// the given value that has a zero value *unless* it has an optional tag with
// value true.
func checkRequired(rValue reflect.Value) error {
	var errs *multierror.Error
	rType := rValue.Type()
	for i := 0; i < rValue.NumField(); i++ {
		field := rType.Field(i)
		if field.Type.Kind() == reflect.Struct {
			if err := checkRequired(rValue.Field(i)); err != nil {
				errs = multierror.Append(errs, err)
			}
			continue
		}
		if field.Type.Kind() == reflect.Bool {
			continue
		}
		if field.Tag.Get("json") == "" {
			// don't validate struct values w/o json tags (e.g. config.Duration.Duration).
			continue
		}
		if field.Tag.Get("optional") == "true" {
			continue
		}
		if rValue.Field(i).IsZero() {
			errs = multierror.Append(errs, skerr.Fmt("Required %s to be non-zero", field.Name))
		}
	}
	return errs.ErrorOrNil()
}
