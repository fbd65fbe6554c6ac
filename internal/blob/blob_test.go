package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "claimdocs/pkg/domain"
	"claimdocs/pkg/platform/sentinel"
)

func TestClaimKey(t *testing.T) {
	claimID := id.NewClaimID()
	assert.Equal(t, "claims/"+claimID.String()+"/exports/a.zip", ClaimKey(claimID, "exports", "a.zip"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemory("https://cdn.example.com/")

	t.Run("round trip copies data", func(t *testing.T) {
		data := []byte("hello")
		require.NoError(t, store.Put(ctx, "a/b.txt", "text/plain", data))
		data[0] = 'X'

		got, err := store.Get(ctx, "a/b.txt")
		require.NoError(t, err)
		assert.Equal(t, "hello", string(got))

		obj, ok := store.Object("a/b.txt")
		require.True(t, ok)
		assert.Equal(t, "text/plain", obj.ContentType)
	})

	t.Run("missing key is not found", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "a/b.txt"))
		require.NoError(t, store.Delete(ctx, "a/b.txt"))
		assert.Empty(t, store.Keys())
	})

	t.Run("url joins base and key", func(t *testing.T) {
		assert.Equal(t, "https://cdn.example.com/a/b.txt", store.URL("/a/b.txt"))
	})
}

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	failPut error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failPut != nil {
		return nil, f.failPut
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	store := NewS3WithAPI(api, "claims-bucket", "https://claims-bucket.s3.us-east-1.amazonaws.com")

	require.NoError(t, store.Put(ctx, "claims/1/receipt.pdf", "application/pdf", []byte("%PDF")))
	assert.Equal(t, "application/pdf", api.types["claims-bucket/claims/1/receipt.pdf"])

	got, err := store.Get(ctx, "claims/1/receipt.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(got))

	require.NoError(t, store.Delete(ctx, "claims/1/receipt.pdf"))
	_, err = store.Get(ctx, "claims/1/receipt.pdf")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	assert.Equal(t, "https://claims-bucket.s3.us-east-1.amazonaws.com/claims/1/receipt.pdf", store.URL("claims/1/receipt.pdf"))

	api.failPut = errors.New("throttled")
	err = store.Put(ctx, "k", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestMemoryStoreHandler(t *testing.T) {
	store := NewMemory("http://localhost:8080/blobs")
	require.NoError(t, store.Put(context.Background(), "claims/1/a.png", "image/png", []byte("png")))
	h := store.Handler("/blobs")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blobs/claims/1/a.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blobs/claims/1/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
