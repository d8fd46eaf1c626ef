package provider

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	cryptoDomain "github.com/allisson/licenses/internal/crypto/domain"
)

// FileKeyDataProvider reads an envelope from the local filesystem.
type FileKeyDataProvider struct {
	path string
}

// NewFileKeyDataProvider creates a FileKeyDataProvider for path.
func NewFileKeyDataProvider(path string) *FileKeyDataProvider {
	return &FileKeyDataProvider{path: path}
}

// EncryptedKeyData reads the file. Missing or unreadable files are ErrKeyNotFound.
func (p *FileKeyDataProvider) EncryptedKeyData(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyNotFound, err)
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", cryptoDomain.ErrKeyNotFound, p.path)
		}
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrKeyNotFound, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", cryptoDomain.ErrKeyNotFound, p.path)
	}
	return data, nil
}
