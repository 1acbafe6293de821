package canon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Key
	}{
		{"empty", "", ""},
		{"plain", "다나씨엠", "다나씨엠"},
		{"inner space", "다나 씨엠", "다나씨엠"},
		{"parenthesized marker", "다나씨엠(주)", "다나씨엠"},
		{"leading marker with space", "(주) 다나씨엠", "다나씨엠"},
		{"spelled out marker", "주식회사 다나씨엠", "다나씨엠"},
		{"both markers", "주식회사 다나씨엠 (주)", "다나씨엠"},
		{"latin case", "Loca 101", "loca101"},
		{"tabs and newlines", "\t로카\n101 ", "로카101"},
		{"ideographic space", "로카\u3000101", "로카101"},
		{"no-break space", "로카\u00a0101", "로카101"},
		{"only whitespace", "  \t ", ""},
		{"only marker", "(주)", ""},
		{"marker and spaces", " 주식회사 (주) ", ""},
		{"other legal words kept", "유한회사 다나", "유한회사다나"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_ConjoiningJamo(t *testing.T) {
	// "다나" spelled with conjoining jamo instead of precomposed syllables.
	decomposed := "\u1103\u1161\u1102\u1161"
	assert.Equal(t, Key("다나"), Normalize(decomposed))
	assert.True(t, Equal(decomposed, "다 나"))

	// Jamo split by a space only compose once the space is gone.
	assert.Equal(t, Key("다"), Normalize("\u1103 \u1161"))
}

func TestNormalize_MarkerFormedBySpaceRemoval(t *testing.T) {
	got := Normalize("다나(주 )")
	assert.Equal(t, Key("다나"), got)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"다나씨엠",
		"다나 씨엠 (주)",
		"주식회사주식회사",
		"주식(주)회사",
		"(주(주))",
		strings.Repeat("(주", 10) + strings.Repeat(")", 10),
		strings.Repeat("주식", 12) + strings.Repeat("회사", 12),
		"ABC Corp",
		"\u1103 \u1161",
		"  ",
		"İstanbul Ltd",
		"로카\u3000101",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(string(once))
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestNormalize_DeeplyNestedMarkers(t *testing.T) {
	nested := strings.Repeat("(주", 10) + strings.Repeat(")", 10)
	assert.True(t, Normalize(nested).IsEmpty())
	assert.True(t, Normalize(strings.Repeat("주식", 12)+strings.Repeat("회사", 12)).IsEmpty())
	assert.Equal(t, Key("다나씨엠"), Normalize(nested+"다나씨엠"))
}

func TestNormalize_EquivalentSpellings(t *testing.T) {
	variants := []string{
		"에이치투케이",
		"에이치 투 케이",
		"(주)에이치투케이",
		"에이치투케이 주식회사",
		" 에이치투케이\t",
	}

	want := Normalize(variants[0])
	require.False(t, want.IsEmpty())
	for _, v := range variants {
		assert.Equal(t, want, Normalize(v), "variant %q", v)
	}

	assert.Equal(t, Normalize("Thingz"), Normalize("THINGZ"))
}

func TestEqual_EmptyNeverMatches(t *testing.T) {
	assert.False(t, Equal("", ""))
	assert.False(t, Equal("(주)", "주식회사"))
	assert.False(t, Equal(" ", "\t"))
	assert.True(t, Equal("씽즈", "씽 즈"))
	assert.False(t, Equal("씽즈", "씽즈랩"))
}

func TestKey_IsEmpty(t *testing.T) {
	assert.True(t, Key("").IsEmpty())
	assert.False(t, Key("a").IsEmpty())
	assert.Equal(t, "abc", Key("abc").String())
}
