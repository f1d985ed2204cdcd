package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromFile(t *testing.T) {
	const data = `
mongo:
  connect: mongodb://localhost:27017
  database: pushmesh
redis:
  url: redis://localhost:6379/0
metric:
  addr: 127.0.0.1:8080
relay:
  consumers: 4
transport:
  token: t-1
fcm:
  credentialsFile:
    android: /etc/fcm/android.json
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	c, err := NewFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pushmesh", c.GetMongo().Database)
	assert.Equal(t, "redis://localhost:6379/0", c.GetRedis().Url)
	assert.Equal(t, "127.0.0.1:8080", c.GetMetric().Addr)
	assert.Equal(t, 4, c.GetRelay().Consumers)
	assert.Equal(t, "t-1", c.GetTransport().Token)
	assert.Equal(t, "/etc/fcm/android.json", c.GetFCM().CredentialsFile.Android)
	assert.Empty(t, c.GetFCM().CredentialsFile.IOS)
}

func TestNewFromFile_Missing(t *testing.T) {
	_, err := NewFromFile(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}
