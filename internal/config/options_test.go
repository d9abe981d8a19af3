package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLoadOptions_MissingFileGivesDefaults(t *testing.T) {
	o, err := LoadOptions(filepath.Join(t.TempDir(), "options.xml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), o)
	assert.Equal(t, 4, o.FramesPerTile())
}

func TestLoadOptions_ParsesDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<options><move_speed>fast</move_speed><screen_size>full</screen_size><language>fr</language></options>`), 0644))

	o, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, SpeedFast, o.MoveSpeed)
	assert.Equal(t, "full", o.ScreenSize)
	assert.Equal(t, "fr", o.Language)
	assert.Equal(t, 2, o.FramesPerTile())
}

func TestLoadOptions_PartialDocumentKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<options><move_speed>slow</move_speed></options>`), 0644))

	o, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, 8, o.FramesPerTile())
	assert.Equal(t, "window", o.ScreenSize)
}

func TestLoadOptions_Rejects(t *testing.T) {
	for name, doc := range map[string]string{
		"broken xml":   `<options><move_speed>`,
		"bad speed":    `<options><move_speed>warp</move_speed></options>`,
		"bad screen":   `<options><screen_size>huge</screen_size></options>`,
		"empty locale": `<options><language></language></options>`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "options.xml")
			require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
			_, err := LoadOptions(path)
			assert.Error(t, err)
		})
	}
}

func TestPropertyOptionsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rapid.Check(t, func(t *rapid.T) {
		o := Options{
			MoveSpeed:  rapid.SampledFrom([]string{SpeedSlow, SpeedNormal, SpeedFast}).Draw(t, "speed"),
			ScreenSize: rapid.SampledFrom([]string{"window", "full"}).Draw(t, "screen"),
			Language:   rapid.StringMatching(`[a-z]{2}`).Draw(t, "lang"),
		}
		path := filepath.Join(dir, "nested", "options.xml")
		if err := SaveOptions(path, o); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := LoadOptions(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		got.XMLName = o.XMLName
		if got != o {
			t.Fatalf("round trip: got %+v, want %+v", got, o)
		}
	})
}
