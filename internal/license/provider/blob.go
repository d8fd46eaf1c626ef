package provider

import (
	"context"
	"fmt"
	"net/url"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"

	// Register the local filesystem blob driver
	_ "gocloud.dev/blob/fileblob"
)

// BlobKeyDataProvider reads an envelope from a gocloud.dev blob bucket.
//
// The source is the bucket URL with the object key as fragment, for example
// "file:///etc/licenses#private.key".
type BlobKeyDataProvider struct {
	bucketURL string
	key       string
}

// NewBlobKeyDataProvider parses source into a bucket URL and object key.
func NewBlobKeyDataProvider(source string) (*BlobKeyDataProvider, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid key source: %v", cryptoDomain.ErrKeyNotFound, err)
	}
	key := u.Fragment
	if key == "" {
		return nil, fmt.Errorf("%w: key source %q has no #object-key", cryptoDomain.ErrKeyNotFound, source)
	}
	u.Fragment = ""
	u.RawFragment = ""
	return &BlobKeyDataProvider{bucketURL: u.String(), key: key}, nil
}

// NewBucketKeyDataProvider reads key from an already opened bucket.
func NewBucketKeyDataProvider(bucket *blob.Bucket, key string) KeyDataProvider {
	return KeyDataProviderFunc(func(ctx context.Context) ([]byte, error) {
		return readBlob(ctx, bucket, key)
	})
}

// EncryptedKeyData opens the bucket, reads the object and closes the bucket.
func (p *BlobKeyDataProvider) EncryptedKeyData(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyNotFound, err)
	}

	bucket, err := blob.OpenBucket(ctx, p.bucketURL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open bucket: %v", cryptoDomain.ErrKeyNotFound, err)
	}
	defer func() {
		_ = bucket.Close()
	}()

	return readBlob(ctx, bucket, p.key)
}

func readBlob(ctx context.Context, bucket *blob.Bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyNotFound, err)
	}
	data, err := bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("%w: object %q does not exist", cryptoDomain.ErrKeyNotFound, key)
		}
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyNotFound, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: object %q is empty", cryptoDomain.ErrKeyNotFound, key)
	}
	return data, nil
}
