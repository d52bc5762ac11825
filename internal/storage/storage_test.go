package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-catalog/backend/config"
)

func TestLocalStorageSaveAndDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)
	ctx := context.Background()

	key := ImageKey(".PNG")
	assert.True(t, strings.HasPrefix(key, "recipe_images/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	require.NoError(t, store.Save(ctx, key, strings.NewReader("data"), "image/png"))
	content, err := os.ReadFile(filepath.Join(store.Root(), filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
	assert.Equal(t, "/media/"+key, store.URL(key))

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(store.Root(), filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))

	// Deleting twice is not an error
	assert.NoError(t, store.Delete(ctx, key))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/media/")
	require.NoError(t, err)

	for _, key := range []string{"../evil.png", "/etc/passwd", "a/../../b", "", `a\b`} {
		err := store.Save(context.Background(), key, strings.NewReader("x"), "")
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

type fakeS3 struct {
	puts    map[string]string
	deletes []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(in.Body)
	f.puts[*in.Key] = string(body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage(t *testing.T) {
	fake := &fakeS3{puts: map[string]string{}}
	store := NewS3StorageWithClient(fake, &config.S3Config{BucketName: "recipes", Region: "eu-west-1"})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "recipe_images/a.jpg", strings.NewReader("jpeg"), "image/jpeg"))
	require.NoError(t, store.Delete(ctx, "recipe_images/a.jpg"))

	assert.Equal(t, "jpeg", fake.puts["recipe_images/a.jpg"])
	assert.Equal(t, []string{"recipe_images/a.jpg"}, fake.deletes)
	assert.Equal(t, "https://recipes.s3.eu-west-1.amazonaws.com/recipe_images/a.jpg", store.URL("recipe_images/a.jpg"))
}
