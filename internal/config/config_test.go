package config

import (
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestDefault_Valid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestLoadFromReader_Empty(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromReader_Overlay(t *testing.T) {
	yml := `
fps: 25
locale: en-US
conjunctions: [and, or]
oracle:
  endpoint: http://localhost:8080/sentences
  timeout: 5s
jobs: 4
`
	cfg, err := LoadFromReader(strings.NewReader(yml))
	require.NoError(t, err)

	assert.Equal(t, 25.0, cfg.FPS)
	assert.Equal(t, "en-US", cfg.Locale)
	assert.Equal(t, []string{"and", "or"}, cfg.Conjunctions)
	assert.Equal(t, "http://localhost:8080/sentences", cfg.Oracle.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Oracle.Timeout)
	assert.Equal(t, 4, cfg.Jobs)
	// Untouched keys keep their defaults.
	assert.Equal(t, 42, cfg.MaxCharsPerLine)
	assert.Equal(t, 120, cfg.Oracle.RequestsPerMinute)
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("frames_per_second: 25\n"))
	require.Error(t, err)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.FPS = 0
	cfg.Jobs = 0
	cfg.Locale = "!!"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fps")
	assert.Contains(t, err.Error(), "jobs")
	assert.Contains(t, err.Error(), "locale")

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 3)
}

func TestLocaleTag(t *testing.T) {
	assert.Equal(t, language.German, CaptionSettings{}.LocaleTag())
	assert.Equal(t, language.MustParse("en-US"), CaptionSettings{Locale: "en-US"}.LocaleTag())
}

func TestIsRestrictive(t *testing.T) {
	p := Default().PipelineSettings

	tests := []struct {
		model string
		want  bool
	}{
		{"large-v3", true},
		{"Large-V3", true},
		{"faster-whisper-large-v3", true},
		{"Systran/faster-whisper-large-v3-turbo", true},
		{"large-v2", false},
		{"medium", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.IsRestrictive(tt.model), "IsRestrictive(%q)", tt.model)
	}
}
