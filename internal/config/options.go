package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Move speeds and the animation length they select.
const (
	SpeedSlow   = "slow"
	SpeedNormal = "normal"
	SpeedFast   = "fast"
)

var framesPerTile = map[string]int{SpeedSlow: 8, SpeedNormal: 4, SpeedFast: 2}

// Options are the user preferences kept apart from level saves.
type Options struct {
	XMLName    xml.Name `xml:"options"`
	MoveSpeed  string   `xml:"move_speed"`
	ScreenSize string   `xml:"screen_size"`
	Language   string   `xml:"language"`
}

// DefaultOptions returns the options used when no document exists.
func DefaultOptions() Options {
	return Options{MoveSpeed: SpeedNormal, ScreenSize: "window", Language: "en"}
}

// FramesPerTile returns the animation length selected by MoveSpeed.
func (o Options) FramesPerTile() int {
	return framesPerTile[o.MoveSpeed]
}

// Validate checks the option values.
func (o Options) Validate() error {
	var errs []error
	if _, ok := framesPerTile[o.MoveSpeed]; !ok {
		errs = append(errs, fmt.Errorf("move_speed must be one of [slow, normal, fast], got %q", o.MoveSpeed))
	}
	if o.ScreenSize != "window" && o.ScreenSize != "full" {
		errs = append(errs, fmt.Errorf("screen_size must be one of [window, full], got %q", o.ScreenSize))
	}
	if o.Language == "" {
		errs = append(errs, errors.New("language must not be empty"))
	}
	return errors.Join(errs...)
}

// LoadOptions reads the options document at path. A missing document yields
// DefaultOptions.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultOptions(), nil
	}
	if err != nil {
		return Options{}, fmt.Errorf("reading options: %w", err)
	}
	o := DefaultOptions()
	if err := xml.Unmarshal(data, &o); err != nil {
		return Options{}, fmt.Errorf("parsing options %q: %w", path, err)
	}
	if err := o.Validate(); err != nil {
		return Options{}, fmt.Errorf("options %q: %w", path, err)
	}
	return o, nil
}

// SaveOptions writes o to path, creating the parent directory.
//
// Precondition: o.Validate() == nil.
func SaveOptions(path string, o Options) error {
	data, err := xml.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating options dir: %w", err)
	}
	return os.WriteFile(path, append([]byte(xml.Header), data...), 0o644)
}
