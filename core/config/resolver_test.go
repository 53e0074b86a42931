package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestResolver_Get(t *testing.T) {
	host := MapSource{"aws_region": "us-east-2", "aws_host": "s3.example.com"}

	t.Run("EnvWins", func(t *testing.T) {
		r := NewResolver(host, WithEnv(envMap(map[string]string{"AWS_REGION": "eu-west-1"})))
		assert.Equal(t, "eu-west-1", r.Get("aws_region"))
	})

	t.Run("FallsBackToHostConfig", func(t *testing.T) {
		r := NewResolver(host, WithEnv(envMap(nil)))
		assert.Equal(t, "us-east-2", r.Get("aws_region"))
	})

	t.Run("EmptyEnvIgnored", func(t *testing.T) {
		r := NewResolver(host, WithEnv(envMap(map[string]string{"AWS_REGION": ""})))
		assert.Equal(t, "us-east-2", r.Get("aws_region"))
	})

	t.Run("KeyCase", func(t *testing.T) {
		r := NewResolver(host, WithEnv(envMap(map[string]string{"AWS_HOST": "minio.local"})))
		assert.Equal(t, "minio.local", r.Get("AWS_Host"))

		r = NewResolver(host, WithEnv(envMap(nil)))
		assert.Equal(t, "s3.example.com", r.Get("AWS_HOST"))
	})

	t.Run("Unset", func(t *testing.T) {
		r := NewResolver(host, WithEnv(envMap(nil)))
		assert.Equal(t, "", r.Get("aws_bucket_prefix"))
	})

	t.Run("NilSource", func(t *testing.T) {
		r := NewResolver(nil, WithEnv(envMap(nil)))
		assert.Equal(t, "", r.Get("aws_region"))
	})
}

func TestResolver_ProcessEnv(t *testing.T) {
	host := MapSource{"aws_region": "us-east-2"}
	r := NewResolver(host)

	t.Setenv("AWS_REGION", "eu-west-1")
	assert.Equal(t, "eu-west-1", r.Get("aws_region"))

	os.Unsetenv("AWS_REGION")
	assert.Equal(t, "us-east-2", r.Get("aws_region"))
}

func TestChain(t *testing.T) {
	chain := Chain{
		MapSource{"aws_region": ""},
		nil,
		MapSource{"aws_region": "eu-central-1", "aws_host": "db.example.com"},
	}

	v, ok := chain.Lookup("aws_region")
	assert.True(t, ok)
	assert.Equal(t, "eu-central-1", v)

	_, ok = chain.Lookup("aws_bucket_prefix")
	assert.False(t, ok)
}

func TestNewFileSource(t *testing.T) {
	t.Run("ReadsYAML", func(t *testing.T) {
		dir := t.TempDir()
		content := "aws_host: s3.example.com\naws_region: eu-west-1\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))

		src, err := NewFileSource(dir)
		require.NoError(t, err)

		v, ok := src.Lookup("aws_host")
		assert.True(t, ok)
		assert.Equal(t, "s3.example.com", v)

		_, ok = src.Lookup("aws_access_key_id")
		assert.False(t, ok)
	})

	t.Run("MissingFile", func(t *testing.T) {
		src, err := NewFileSource(t.TempDir())
		require.NoError(t, err)

		_, ok := src.Lookup("aws_host")
		assert.False(t, ok)
	})

	t.Run("Malformed", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("aws_host: [unclosed\n"), 0o600))

		_, err := NewFileSource(dir)
		assert.Error(t, err)
	})
}
