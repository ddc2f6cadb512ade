package objectstore

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFormat(t *testing.T) {
	key, err := Key(42, "jobs", "before", ".JPG")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^42/jobs/before-\d{8}T\d{6}-[0-9a-f-]{8}\.jpg$`), key)
}

func TestKeyRejectsUnknownExtension(t *testing.T) {
	for _, ext := range []string{"exe", "svg", "gif", ""} {
		_, err := Key(1, "jobs", "before", ext)
		assert.Error(t, err, ext)
	}
}

func TestKeySanitizesSegments(t *testing.T) {
	key, err := Key(1, "../Jobs", "be fore!", "png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "1/jobs/before-"), key)

	_, err = Key(1, "../..", "..", "png")
	assert.Error(t, err, "segments that sanitize to nothing are refused")
}

func TestPutWritesBelowDir(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir, "http://localhost:8080/media/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "1/jobs/photo.jpg", strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/media/1/jobs/photo.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "1", "jobs", "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestPutRejectsTraversal(t *testing.T) {
	store, err := New(t.TempDir(), "http://localhost/media")
	require.NoError(t, err)

	for _, key := range []string{
		"../escape.jpg",
		"1/../../escape.jpg",
		"/absolute.jpg",
		"1//jobs/photo.jpg",
	} {
		_, err := store.Put(context.Background(), key, strings.NewReader("x"))
		assert.Error(t, err, key)
	}
}

func TestPutEnforcesSizeCap(t *testing.T) {
	store, err := New(t.TempDir(), "http://localhost/media")
	require.NoError(t, err)

	huge := strings.NewReader(strings.Repeat("a", MaxUploadBytes+1))
	_, err = store.Put(context.Background(), "1/jobs/huge.jpg", huge)
	assert.Error(t, err)
}

func TestNewRequiresDir(t *testing.T) {
	_, err := New("", "http://localhost/media")
	assert.Error(t, err)
}
