// Package fileconfig decodes the YAML/JSON registry files under configs/.
package fileconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type decoder struct {
	format string
	fn     func([]byte, any) error
}

var (
	yamlDecoder = decoder{format: "yaml", fn: yaml.Unmarshal}
	jsonDecoder = decoder{format: "json", fn: json.Unmarshal}
)

// decodersFor picks the decoders to try for a file extension. Unknown
// extensions try YAML, then JSON.
func decodersFor(ext string) []decoder {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return []decoder{yamlDecoder}
	case ".json":
		return []decoder{jsonDecoder}
	default:
		return []decoder{yamlDecoder, jsonDecoder}
	}
}

// Load reads path and decodes it into out. kind names the file in errors
// ("sites", "publishers").
func Load(path, kind string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%s file path is empty", kind)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s file: %w", kind, err)
	}
	return Decode(raw, filepath.Ext(path), kind, out)
}

// Decode decodes raw into out using the format implied by ext.
func Decode(raw []byte, ext, kind string, out any) error {
	var errs []error
	for _, d := range decodersFor(ext) {
		if err := d.fn(raw, out); err != nil {
			errs = append(errs, fmt.Errorf("decode %s %s: %w", d.format, kind, err))
			continue
		}
		return nil
	}
	return errors.Join(errs...)
}
