package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/billadmin/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeObjectAPI keeps objects in memory, keyed by bucket/key
type fakeObjectAPI struct {
	objects map[string][]byte
	buckets map[string]bool
	getErr  error
	headErr error
	puts    int
}

func newFakeObjectAPI() *fakeObjectAPI {
	return &fakeObjectAPI{objects: map[string][]byte{}, buckets: map[string]bool{}}
}

func (f *fakeObjectAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(string(data)))}, nil
}

func (f *fakeObjectAPI) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	if _, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	f.puts++
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if !f.buckets[aws.ToString(in.Bucket)] {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeObjectAPI) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.buckets[aws.ToString(in.Bucket)] = true
	return &s3.CreateBucketOutput{}, nil
}

func createTestStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:    "snapshots",
		Key:       "billadmin/seed.json",
		AccessKey: "test-key",
		SecretKey: "test-secret",
		Endpoint:  "http://localhost:9000",
	}
}

func createTestStorage(t *testing.T, api *fakeObjectAPI) *S3ObjectStorage {
	t.Helper()
	storage, err := NewS3ObjectStorage(createTestStorageConfig(), WithClient(api), WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return storage
}

// ============================================================================
// Construction
// ============================================================================

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *config.StorageConfig)
		wantErr string
	}{
		{"missing bucket returns error", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"missing key returns error", func(c *config.StorageConfig) { c.Key = "" }, "object key is required"},
		{"missing access key returns error", func(c *config.StorageConfig) { c.AccessKey = "" }, "access key is required"},
		{"missing secret key returns error", func(c *config.StorageConfig) { c.SecretKey = "" }, "secret key is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestStorageConfig()
			tt.mutate(cfg)
			_, err := NewS3ObjectStorage(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("endpoint without scheme is accepted", func(t *testing.T) {
		cfg := createTestStorageConfig()
		cfg.Endpoint = "minio:9000"
		cfg.UseSSL = true
		storage, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, "snapshots", storage.GetBucket())
	})

	t.Run("location names bucket and key", func(t *testing.T) {
		storage, err := NewS3ObjectStorage(createTestStorageConfig())
		require.NoError(t, err)
		assert.Equal(t, "s3://snapshots/billadmin/seed.json", storage.Location())
	})
}

// ============================================================================
// Object operations
// ============================================================================

func TestS3ObjectStorage_UploadThenOpen(t *testing.T) {
	api := newFakeObjectAPI()
	storage := createTestStorage(t, api)
	ctx := context.Background()

	require.NoError(t, storage.Upload(ctx, []byte(`{"plans":[]}`)))
	assert.Equal(t, 1, api.puts)

	body, err := storage.Open(ctx)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, `{"plans":[]}`, string(data))
}

func TestS3ObjectStorage_Open(t *testing.T) {
	t.Run("missing object names the location", func(t *testing.T) {
		storage := createTestStorage(t, newFakeObjectAPI())
		_, err := storage.Open(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "s3://snapshots/billadmin/seed.json does not exist")
	})

	t.Run("client failure is wrapped", func(t *testing.T) {
		api := newFakeObjectAPI()
		api.getErr = errors.New("connection refused")
		storage := createTestStorage(t, api)
		_, err := storage.Open(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get object")
	})
}

func TestS3ObjectStorage_ObjectExists(t *testing.T) {
	api := newFakeObjectAPI()
	storage := createTestStorage(t, api)
	ctx := context.Background()

	exists, err := storage.ObjectExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, storage.Upload(ctx, []byte("{}")))
	exists, err = storage.ObjectExists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	t.Run("message-only not found is treated as absent", func(t *testing.T) {
		api.headErr = errors.New("api error NotFound: Not Found")
		exists, err := storage.ObjectExists(ctx)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("other errors are returned", func(t *testing.T) {
		api.headErr = errors.New("access denied")
		_, err := storage.ObjectExists(ctx)
		require.Error(t, err)
	})
}

func TestS3ObjectStorage_Upload_RejectsEmptyData(t *testing.T) {
	api := newFakeObjectAPI()
	storage := createTestStorage(t, api)

	err := storage.Upload(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
	assert.Zero(t, api.puts)
}

func TestS3ObjectStorage_EnsureBucket(t *testing.T) {
	api := newFakeObjectAPI()
	storage := createTestStorage(t, api)

	require.NoError(t, storage.EnsureBucket(context.Background()))
	assert.True(t, api.buckets["snapshots"])

	// Second call finds the bucket
	require.NoError(t, storage.EnsureBucket(context.Background()))
}
