package widget

import (
	"fmt"
	"slices"

	"github.com/matzehuels/freeboard/pkg/errors"
)

// Minimum viable instance size.
const (
	MinWidth  = 200
	MinHeight = 150
)

// SizeClass is the coarse size category of a widget type.
type SizeClass string

// Size classes.
const (
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

// sizeDefaults maps each size class to its default width and height.
var sizeDefaults = map[SizeClass][2]int{
	SizeSmall:  {300, 200},
	SizeMedium: {400, 300},
	SizeLarge:  {600, 400},
}

// ParseSizeClass converts s to a SizeClass. Unknown values are an error.
func ParseSizeClass(s string) (SizeClass, error) {
	c := SizeClass(s)
	if _, ok := sizeDefaults[c]; !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown size class %q", s)
	}
	return c, nil
}

// Dimensions returns the default width and height of the size class.
// Unknown classes fall back to medium.
func (c SizeClass) Dimensions() (w, h int) {
	d, ok := sizeDefaults[c]
	if !ok {
		d = sizeDefaults[SizeMedium]
	}
	return d[0], d[1]
}

// SettingSpec describes one entry of a descriptor's settings schema.
type SettingSpec struct {
	Type    string `json:"type" yaml:"type"`
	Default any    `json:"default,omitempty" yaml:"default"`
}

// Descriptor is the immutable catalog entry of a widget type.
type Descriptor struct {
	ID          string                 `json:"id" yaml:"id"`
	Name        string                 `json:"name" yaml:"name"`
	Icon        string                 `json:"icon,omitempty" yaml:"icon"`
	Sizes       []SizeClass            `json:"sizes" yaml:"sizes"`
	DefaultSize SizeClass              `json:"defaultSize" yaml:"default_size"`
	Settings    map[string]SettingSpec `json:"settings,omitempty" yaml:"settings"`
}

// Validate checks that d is complete and internally consistent.
func (d Descriptor) Validate() error {
	if d.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "descriptor id cannot be empty")
	}
	if d.Name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "descriptor %q has no name", d.ID)
	}
	if len(d.Sizes) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "descriptor %q allows no sizes", d.ID)
	}
	for _, s := range d.Sizes {
		if _, err := ParseSizeClass(string(s)); err != nil {
			return fmt.Errorf("descriptor %q: %w", d.ID, err)
		}
	}
	if !slices.Contains(d.Sizes, d.DefaultSize) {
		return errors.New(errors.ErrCodeInvalidInput,
			"descriptor %q: default size %q is not an allowed size", d.ID, d.DefaultSize)
	}
	return nil
}

// DefaultSettings returns a fresh settings map seeded from the schema
// defaults. The returned map shares nothing with the descriptor.
func (d Descriptor) DefaultSettings() map[string]any {
	out := make(map[string]any, len(d.Settings))
	for name, spec := range d.Settings {
		if spec.Default != nil {
			out[name] = copyValue(spec.Default)
		}
	}
	return out
}

// clone returns a deep copy of d so registry callers cannot mutate entries.
func (d Descriptor) clone() Descriptor {
	d.Sizes = slices.Clone(d.Sizes)
	if d.Settings != nil {
		settings := make(map[string]SettingSpec, len(d.Settings))
		for k, v := range d.Settings {
			v.Default = copyValue(v.Default)
			settings[k] = v
		}
		d.Settings = settings
	}
	return d
}

// copyValue deep-copies JSON/YAML shaped values.
func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = copyValue(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = copyValue(val)
		}
		return s
	default:
		return v
	}
}
