package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckContentType(t *testing.T) {
	assert.NoError(t, checkContentType(TypeFeaturedImage, "image/jpeg"))
	assert.NoError(t, checkContentType(TypeContentImage, "image/webp"))
	assert.NoError(t, checkContentType(TypeAuthorProfile, "image/png"))
	assert.NoError(t, checkContentType(TypeAudio, "audio/mpeg"))

	assert.Error(t, checkContentType(TypeFeaturedImage, "audio/mpeg"))
	assert.Error(t, checkContentType(TypeAudio, "image/png"))
	assert.Error(t, checkContentType(TypeContentImage, "application/pdf"))
}

func TestKeyFromURL(t *testing.T) {
	key, err := keyFromURL("https://cdn.example.com/blog/featured/1718000000000-photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "blog/featured/1718000000000-photo.jpg", key)

	_, err = keyFromURL("https://cdn.example.com/")
	assert.Error(t, err)

	_, err = keyFromURL("://not-a-url")
	assert.Error(t, err)
}

func TestSanitizedFilenames(t *testing.T) {
	cases := map[string]string{
		"simple.jpg":        "simple.jpg",
		"with space.png":    "with_space.png",
		"صوت.mp3":           "___.mp3",
		"a/b\\c.jpg":        "a_b_c.jpg",
		"mixed-OK_1.2.webp": "mixed-OK_1.2.webp",
	}
	for in, want := range cases {
		assert.Equal(t, want, unsafeFilenameChars.ReplaceAllString(in, "_"), "input %q", in)
	}
}

func TestUploadFoldersAndLimits(t *testing.T) {
	// Every upload type has both a folder and a size cap.
	for uploadType := range uploadFolders {
		assert.Contains(t, maxFileSize, uploadType)
	}
	assert.Equal(t, int64(10<<20), maxFileSize[TypeFeaturedImage])
	assert.Equal(t, int64(200<<20), maxFileSize[TypeAudio])
}
