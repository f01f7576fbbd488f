package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is a named set of format switches for one game title, stored as
// YAML so new titles can be described without rebuilding:
//
//	name: tribes-vengeance
//	version: 128
//	licensee_version: 29
//	titles: [tribes3]
//	max_array_count: 1048576
type Profile struct {
	Name            string   `yaml:"name"`
	Version         int32    `yaml:"version"`
	LicenseeVersion int32    `yaml:"licensee_version"`
	Titles          []string `yaml:"titles"`
	MaxArrayCount   *int     `yaml:"max_array_count"`
}

// ParseProfile decodes a YAML profile. Unknown fields are rejected.
func ParseProfile(data []byte) (*Profile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var p Profile
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("archive: empty profile")
		}
		return nil, fmt.Errorf("archive: decode profile: %w", err)
	}
	if _, err := ParseTitles(p.Titles...); err != nil {
		return nil, fmt.Errorf("archive: profile %q: %w", p.Name, err)
	}
	return &p, nil
}

// LoadProfile reads and decodes a YAML profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("archive: read profile: %w", err)
	}
	return ParseProfile(data)
}

// Format converts the profile into archive format switches. Fields left out
// of the profile keep their defaults.
func (p *Profile) Format() (Format, error) {
	titles, err := ParseTitles(p.Titles...)
	if err != nil {
		return Format{}, err
	}
	f := Format{
		Version:         DefaultVersion,
		LicenseeVersion: p.LicenseeVersion,
		Titles:          titles,
		MaxArrayCount:   DefaultMaxArrayCount,
	}
	if p.Version != 0 {
		f.Version = p.Version
	}
	if p.MaxArrayCount != nil {
		f.MaxArrayCount = *p.MaxArrayCount
	}
	return f, nil
}

// Option returns an Option applying the profile's format switches.
func (p *Profile) Option() (Option, error) {
	f, err := p.Format()
	if err != nil {
		return nil, err
	}
	return WithFormat(f), nil
}
