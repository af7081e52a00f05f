package configs

import (
	"bytes"
	"encoding/base64"
	"os"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndLoadSessionKeys(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	path, err := GenerateAndPrintSessionKeys(&out, dir)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "APP_AUTH_KEY=")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	values, err := godotenv.Unmarshal(string(raw))
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	keys, err := LoadSessionKeysFromEnv(ENV{AppAuthKey: values["APP_AUTH_KEY"], AppEncKey: values["APP_ENC_KEY"]})
	require.NoError(t, err)
	assert.Len(t, keys.AuthKey, 64)
	assert.Len(t, keys.EncKey, 32)
}

func TestLoadSessionKeysFromEnv_Errors(t *testing.T) {
	good := base64.URLEncoding.EncodeToString(bytes.Repeat([]byte{1}, 32))
	short := base64.URLEncoding.EncodeToString([]byte("too-short"))

	tests := []struct {
		name string
		env  ENV
		want string
	}{
		{name: "missing auth key", env: ENV{AppEncKey: good}, want: "APP_AUTH_KEY is empty"},
		{name: "missing enc key", env: ENV{AppAuthKey: good}, want: "APP_ENC_KEY is empty"},
		{name: "bad base64", env: ENV{AppAuthKey: "***", AppEncKey: good}, want: "APP_AUTH_KEY is not url-safe base64"},
		{name: "bad enc length", env: ENV{AppAuthKey: good, AppEncKey: short}, want: "AES needs 16, 24 or 32"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSessionKeysFromEnv(tt.env)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.want), err.Error())
		})
	}
}
