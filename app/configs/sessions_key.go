package configs

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gorilla/securecookie"
)

const (
	authKeyLength = 64
	encKeyLength  = 32
	keysFileName  = ".env.new_keys"
)

// SessionKeys sign (AuthKey) and encrypt (EncKey) the cart session cookie.
type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
}

func decodeKey(name, value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("%s is empty, run generate-keys", name)
	}
	key, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%s is not url-safe base64: %w", name, err)
	}
	return key, nil
}

func LoadSessionKeysFromEnv(env ENV) (*SessionKeys, error) {
	authKey, err := decodeKey("APP_AUTH_KEY", env.AppAuthKey)
	if err != nil {
		return nil, err
	}
	encKey, err := decodeKey("APP_ENC_KEY", env.AppEncKey)
	if err != nil {
		return nil, err
	}

	switch len(encKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("APP_ENC_KEY decodes to %d bytes, AES needs 16, 24 or 32", len(encKey))
	}
	return &SessionKeys{AuthKey: authKey, EncKey: encKey}, nil
}

// GenerateAndPrintSessionKeys writes a fresh key pair to dir/.env.new_keys and
// echoes it to out. It returns the file's absolute path.
func GenerateAndPrintSessionKeys(out io.Writer, dir string) (string, error) {
	authKey := securecookie.GenerateRandomKey(authKeyLength)
	encKey := securecookie.GenerateRandomKey(encKeyLength)
	if authKey == nil || encKey == nil {
		return "", fmt.Errorf("random source exhausted while generating session keys")
	}

	lines := fmt.Sprintf("APP_AUTH_KEY=%s\nAPP_ENC_KEY=%s\n",
		base64.URLEncoding.EncodeToString(authKey),
		base64.URLEncoding.EncodeToString(encKey))

	path, err := filepath.Abs(filepath.Join(dir, keysFileName))
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", keysFileName, err)
	}
	if err := os.WriteFile(path, []byte(lines), 0o600); err != nil {
		return "", fmt.Errorf("write session keys: %w", err)
	}

	fmt.Fprint(out, lines)
	fmt.Fprintf(out, "wrote %s; rotating keys signs every shopper out of their cart\n", path)
	return path, nil
}
