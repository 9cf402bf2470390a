package keys

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

var keySize = 32

// Key authenticates the CSRF cookie.
type Key []byte

func NewKey() (*Key, error) {
	bytes := make([]byte, keySize)
	if _, err := rand.Read(bytes); err != nil {
		return nil, err
	}
	key := Key(bytes)
	return &key, nil
}

func ParseKey(bytes []byte) (*Key, error) {
	if len(bytes) != keySize {
		return nil, fmt.Errorf("invalid key size: got %d, need %d", len(bytes), keySize)
	}
	key := Key(bytes)
	return &key, nil
}

// Decode parses a key in the format of Key.String.
func Decode(s string) (*Key, error) {
	bytes, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	return ParseKey(bytes)
}

func (k Key) String() string {
	return base64.URLEncoding.EncodeToString(k)
}
