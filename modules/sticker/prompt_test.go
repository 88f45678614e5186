package sticker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeExactPrompt(t *testing.T) {
	got := Compose("a retro character", StyleRetro80s, "", true)

	assert.Equal(t,
		"Synthwave style, neon colors, sunset gradient, retro 80s aesthetic, sticker design, of a retro character, "+
			"high quality, detailed, professional, no text, no words, no letters, clean sticker edges",
		got.Prompt)
	assert.True(t, strings.HasPrefix(got.NegativePrompt, "text, words, letters"))
	assert.True(t, strings.HasSuffix(got.NegativePrompt, "modern, minimalist, muted colors, realistic"))
}

func TestComposeIsDeterministic(t *testing.T) {
	for _, def := range Catalog() {
		a := Compose("a fox", def.Key, "wearing a scarf", true)
		b := Compose("a fox", def.Key, "wearing a scarf", true)
		assert.Equal(t, a, b, def.Key)
	}
}

func TestComposeWithoutFormat(t *testing.T) {
	got := Compose("a cat", StyleChibi, "", false)
	assert.NotContains(t, got.Prompt, "sticker design")
	assert.NotContains(t, got.Prompt, "clean sticker edges")
	assert.Contains(t, got.Prompt, "of a cat")
}

func TestComposeDoesNotRepeatCustomSubject(t *testing.T) {
	custom := "a grumpy cat holding coffee"
	subject := ChooseSubject("", custom, StyleKawaii)
	require.Equal(t, custom, subject)

	got := Compose(subject, StyleKawaii, custom, true)
	assert.Equal(t, 1, strings.Count(got.Prompt, custom))
}

func TestChooseSubjectPrecedence(t *testing.T) {
	assert.Equal(t, "a dragon", ChooseSubject("  a dragon ", "a long custom description", StyleGhibli))
	assert.Equal(t, "a long custom description", ChooseSubject("", "a long custom description", StyleGhibli))
	// 10자 이하 커스텀 텍스트는 피사체로 쓰지 않음
	assert.Equal(t, "a forest spirit", ChooseSubject("", "blue", StyleGhibli))
	assert.Equal(t, "a forest spirit", ChooseSubject("", "", StyleGhibli))
}

func TestNegativePromptIncludesBaseAndStyle(t *testing.T) {
	neg := NegativePrompt(StyleGhibli)
	for _, n := range []string{"text", "watermark", "extra people", "photorealistic", "horror"} {
		assert.Contains(t, neg, n)
	}

	unknown := NegativePrompt(StyleKey("NOPE"))
	assert.Equal(t, strings.Join(baseNegatives, ", "), unknown)
}

func TestComposeCustomOnly(t *testing.T) {
	got := ComposeCustomOnly("a robot made of candy", true)
	assert.Equal(t, "Sticker design, of a robot made of candy, high quality, detailed, professional, "+
		"no text, no words, no letters, clean sticker edges", got.Prompt)
	assert.Equal(t, strings.Join(baseNegatives, ", "), got.NegativePrompt)

	empty := ComposeCustomOnly("  ", true)
	assert.Contains(t, empty.Prompt, genericSubject)
}

func TestVariationsHints(t *testing.T) {
	prompts := Variations("a fox", StyleAnime, "", false, 4)
	require.Len(t, prompts, 4)

	assert.Equal(t, Compose("a fox", StyleAnime, "", true), prompts[0])
	assert.Contains(t, prompts[1].Prompt, "playful version")
	assert.Contains(t, prompts[2].Prompt, "cute version")
	assert.Contains(t, prompts[3].Prompt, "dynamic version")

	seen := make(map[string]bool)
	for _, p := range prompts {
		assert.False(t, seen[p.Prompt])
		seen[p.Prompt] = true
		assert.Equal(t, NegativePrompt(StyleAnime), p.NegativePrompt)
	}
}

func TestVariationsCustomOnlySkipsStyle(t *testing.T) {
	prompts := Variations("", StyleCyberpunk, "a tiny house on a hill", true, 2)
	require.Len(t, prompts, 2)
	for _, p := range prompts {
		assert.NotContains(t, p.Prompt, "cyberpunk")
		assert.Contains(t, p.Prompt, "of a tiny house on a hill")
		assert.NotContains(t, p.NegativePrompt, "pastoral")
	}
	assert.Contains(t, prompts[1].Prompt, "playful version")
}

func TestVariationsMinimumOne(t *testing.T) {
	assert.Len(t, Variations("a fox", StyleAnime, "", false, 0), 1)
	assert.Len(t, Variations("a fox", StyleAnime, "", false, -3), 1)
}

func TestVariationCount(t *testing.T) {
	cases := []struct {
		in   *int
		want int
	}{
		{nil, 1},
		{intPtr(-2), 1},
		{intPtr(0), 1},
		{intPtr(1), 1},
		{intPtr(3), 3},
		{intPtr(4), 4},
		{intPtr(9), 4},
	}
	for _, c := range cases {
		req := &GenerateRequest{Style: "anime", NumberOfVariations: c.in}
		assert.Equal(t, c.want, req.VariationCount())
	}
}
