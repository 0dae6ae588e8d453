package assets

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	key := Key(TeamLogo, "Los Tigres Ñandú.PNG", ".png")
	assert.True(t, strings.HasPrefix(key, "team_logos/los-tigres-nandu-"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)

	assert.True(t, strings.HasPrefix(Key(PlayerPhoto, "???", ".jpg"), "player_photos/upload-"))
	assert.NotEqual(t, Key(TeamLogo, "a.png", ".png"), Key(TeamLogo, "a.png", ".png"))
}

func TestParseKindAndExtension(t *testing.T) {
	kind, ok := ParseKind("player_photos")
	assert.True(t, ok)
	assert.Equal(t, PlayerPhoto, kind)

	_, ok = ParseKind("documents")
	assert.False(t, ok)

	ext, ok := Extension("IMAGE/JPEG")
	assert.True(t, ok)
	assert.Equal(t, ".jpg", ext)

	_, ok = Extension("application/pdf")
	assert.False(t, ok)
}

func TestLocalStorePut(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/media/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "team_logos/x.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/media/team_logos/x.png", url)

	data, err := os.ReadFile(filepath.Join(root, "team_logos", "x.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	_, err = store.Put(context.Background(), "../escape.png", strings.NewReader(""), "image/png")
	assert.Error(t, err)
}

func TestLocalStorePutRemovesPartialFile(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/media")
	require.NoError(t, err)

	body := io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(errors.New("connection reset")))
	_, err = store.Put(context.Background(), "team_logos/broken.png", body, "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	_, err = os.Stat(filepath.Join(root, "team_logos", "broken.png"))
	assert.True(t, os.IsNotExist(err))
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3StorePut(t *testing.T) {
	client := &fakeS3{}
	store := newS3Store(client, "media", "https://cdn.example.com/")

	url, err := store.Put(context.Background(), "tournament_logos/copa.webp", strings.NewReader("img"), "image/webp")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/tournament_logos/copa.webp", url)
	assert.Equal(t, "media", aws.ToString(client.input.Bucket))
	assert.Equal(t, "tournament_logos/copa.webp", aws.ToString(client.input.Key))
	assert.Equal(t, "image/webp", aws.ToString(client.input.ContentType))
	assert.Equal(t, "img", client.body)
}
