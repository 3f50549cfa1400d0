package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/spigell/hh-screener/internal/screening"
)

//go:embed catalog.yaml
var builtinCatalog []byte

type catalogFile struct {
	Companies []screening.CompanyFacts `mapstructure:"companies"`
	Jobs      []screening.JobProfile   `mapstructure:"jobs"`
}

// Builtin returns the catalog shipped with the binary.
func Builtin() (*Catalog, error) {
	return Parse(bytes.NewReader(builtinCatalog), "yaml")
}

// Load reads a catalog file. The format is taken from the file extension
// (yaml, json or toml).
func Load(path string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read content file %s: %w", path, err)
	}

	c, err := decode(v)
	if err != nil {
		return nil, fmt.Errorf("content file %s: %w", path, err)
	}
	return c, nil
}

// Parse reads a catalog in the given format from r.
func Parse(r io.Reader, format string) (*Catalog, error) {
	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return decode(v)
}

// decode is strict: unknown keys are errors so that typos in hand-written
// catalogs do not silently drop questions.
func decode(v *viper.Viper) (*Catalog, error) {
	var file catalogFile
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &file,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("create content decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, &screening.ValidationError{Entity: "catalog", Problems: []string{err.Error()}}
	}

	return NewCatalog(file.Companies, file.Jobs)
}
