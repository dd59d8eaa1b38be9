package audio

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedURL(t *testing.T) {
	track := "https://soundcloud.com/athar/episode-1"
	embed := EmbedURL(track)

	require.True(t, strings.HasPrefix(embed, soundCloudPlayerBase+"?"))
	u, err := url.Parse(embed)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, track, q.Get("url"))
	assert.Equal(t, "false", q.Get("auto_play"))
	assert.Equal(t, "true", q.Get("hide_related"))
	assert.Equal(t, "false", q.Get("visual"))
	assert.Equal(t, "#666666", q.Get("color"))
}

func TestExtractTrackURLBare(t *testing.T) {
	assert.Equal(t,
		"https://soundcloud.com/athar/ep2",
		ExtractTrackURL("  https://soundcloud.com/athar/ep2  "))
}

func TestExtractTrackURLFromIframe(t *testing.T) {
	iframe := `<iframe width="100%" height="166" scrolling="no" frameborder="no" ` +
		`src="https://w.soundcloud.com/player/?url=https%3A%2F%2Fsoundcloud.com%2Fathar%2Fep3&color=%23ff5500"></iframe>`
	assert.Equal(t, "https://soundcloud.com/athar/ep3", ExtractTrackURL(iframe))
}

func TestExtractTrackURLMalformedIframe(t *testing.T) {
	// No src attribute: input passes through untouched.
	in := `<iframe width="100%"></iframe>`
	assert.Equal(t, in, ExtractTrackURL(in))

	// src without a url param: also passes through.
	in2 := `<iframe src="https://example.com/player"></iframe>`
	assert.Equal(t, in2, ExtractTrackURL(in2))
}
