package profile

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load reads a YAML profile from path and validates it.
func Load(path string) (*Profile, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadProfile, path, err)
	}

	var p Profile
	if err := k.UnmarshalWithConf("", &p, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadProfile, path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
