package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_CaseInsensitive(t *testing.T) {
	for _, id := range []string{"openai", "OpenAI", "OPENAI", "  openai  "} {
		d, ok := Lookup(id)
		require.True(t, ok, "lookup %q", id)
		assert.Equal(t, "openai", d.ID)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, ok := Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestDefaultProvider_IsCapabilityComplete(t *testing.T) {
	d := Default()
	assert.Equal(t, DefaultProviderID, d.ID)
	assert.True(t, d.Supports(CapabilityChat))
	assert.True(t, d.Supports(CapabilitySpeech))
	assert.True(t, d.Supports(CapabilityTranscription))
	assert.NotEmpty(t, d.BaseURL)
	assert.NotEmpty(t, d.DefaultModel)
}

func TestDescriptor_AudioFlags(t *testing.T) {
	deepseek, ok := Lookup("deepseek")
	require.True(t, ok)
	assert.True(t, deepseek.Supports(CapabilityChat))
	assert.False(t, deepseek.Supports(CapabilitySpeech))
	assert.False(t, deepseek.Supports(CapabilityTranscription))

	openrouter, ok := Lookup("openrouter")
	require.True(t, ok)
	assert.False(t, openrouter.Supports(CapabilitySpeech))
	assert.Contains(t, openrouter.ExtraHeaders, "X-Title")
}

func TestDescriptors_SortedAndComplete(t *testing.T) {
	all := Descriptors()
	require.Len(t, all, 4)
	ids := make([]string, 0, len(all))
	for _, d := range all {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"custom", "deepseek", "openai", "openrouter"}, ids)
}
