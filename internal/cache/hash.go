package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/dshills/semfind/pkg/types"
)

// hashChunkSize is the read size used when streaming a file through the hash
const hashChunkSize = 8192

// keySeparator joins the key inputs; it cannot appear in a hex digest
const keySeparator = "|"

// HashContent returns the hex SHA-256 digest of the file at path
func HashContent(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", types.NewFileError("open", path, err)
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", types.NewFileError("hash", path, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBytes returns the hex SHA-256 digest of content. It equals
// HashContent for a file holding the same bytes.
func HashBytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Key derives the cache key for a file's content under a model. The path is
// made absolute, so the same content at two locations gets two keys.
func Key(path, model, digest string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", types.NewFileError("resolve", path, err)
	}
	sum := sha256.Sum256([]byte(abs + keySeparator + digest + keySeparator + model))
	return hex.EncodeToString(sum[:]), nil
}
