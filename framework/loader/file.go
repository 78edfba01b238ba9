package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

// Format identifies a declaration file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// ReadFile reads and decodes a declaration file. The format follows the
// file extension: .json, .yaml/.yml or .toml.
//
//	# services.yaml
//	mailer:
//	  module: ./services/mailer
//	  host: smtp.internal
//	host: global.example
func ReadFile(path string) (Declarations, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	decls, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	return decls, nil
}

// Decode parses declarations from data in the given format.
func Decode(data []byte, format Format) (Declarations, error) {
	decls := Declarations{}
	switch format {
	case FormatJSON:
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &decls); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &decls); err != nil {
			return nil, err
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &decls); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return decls, nil
}
