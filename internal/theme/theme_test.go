package theme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Name
	}{
		{"", ClaudeCode},
		{"claude-code", ClaudeCode},
		{"  DROID ", Droid},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseUnknownSuggests(t *testing.T) {
	t.Parallel()
	_, err := Parse("drd")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknown))
	assert.Contains(t, err.Error(), `did you mean "droid"`)

	_, err = Parse("zzzz")
	require.ErrorIs(t, err, ErrUnknown)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestSuggest(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ClaudeCode, Suggest("claude"))
	assert.Equal(t, Droid, Suggest("dro"))
	assert.Equal(t, Name(""), Suggest("xyz"))
}

func TestResolveTables(t *testing.T) {
	t.Parallel()
	cc := Resolve(ClaudeCode)
	assert.Equal(t, "#4A9EFF", cc.Colors.Primary)
	assert.Equal(t, "⏺", cc.Symbols.AIPrefix)
	assert.Equal(t, "⎿", cc.Symbols.ToolOutput)
	assert.Len(t, cc.SpinnerFrames(), 10)
	assert.Equal(t, Layout{Indent: 2, LineSpacing: 0, ComponentSpacing: 1, MaxWidth: 120}, cc.Layout)
	assert.False(t, cc.IsDroid())

	d := Resolve(Droid)
	assert.True(t, d.IsDroid())
	assert.Equal(t, "#FEB17F", d.Colors.Primary)
	assert.Equal(t, "⛬", d.Symbols.AIPrefix)
	assert.Equal(t, []string{"◐", "◓", "◑", "◒"}, d.SpinnerFrames())
	assert.Equal(t, 100, d.Layout.MaxWidth)
	assert.Equal(t, "#00D9FF", d.Border.Color)
}

func TestResolveUnknownFallsBack(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ClaudeCode, Resolve(Name("neon")).Name)
}

func TestNamesIsCopy(t *testing.T) {
	t.Parallel()
	names := Names()
	require.Len(t, names, 2)
	names[0] = "x"
	assert.Equal(t, ClaudeCode, Names()[0])
}

func TestStylesRender(t *testing.T) {
	t.Parallel()
	s := Resolve(Droid).Styles()
	assert.Contains(t, s.Badge.Render("READ"), "READ")
	assert.Contains(t, s.Box.Render("body"), "body")
}
