package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/systmms/ccp-go/internal/logging"
	"github.com/systmms/ccp-go/pkg/ccp"
)

// writeConfig drops the YAML into a temp file and returns a Config
// pointed at it.
func writeConfig(t *testing.T, content string) *Config {
	t.Helper()

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "ccp.yaml")
	err := os.WriteFile(configPath, []byte(content), 0644)
	require.NoError(t, err)

	return &Config{
		Path:   configPath,
		Logger: logging.New(false, true),
	}
}

func TestConfig_Load(t *testing.T) {
	configContent := `version: 1
base_url: https://ccp.example.com
app_id: MyApp
endpoint: /AIMWebService/api/Accounts
timeout_ms: 5000
root_cas: /etc/ssl/corp-ca.pem

certificate:
  file: /etc/ccp/client.p12
  password_keyring:
    service: ccp
    user: client-p12

app_certificates:
  OtherApp:
    file: /etc/ccp/other.pem
    key: /etc/ccp/other.key
  StoreApp:
    thumbprint: "AB:12:CD:34"
    store_location: LocalMachine
    store_name: My
`

	config := writeConfig(t, configContent)
	require.NoError(t, config.Load())

	def := config.Definition
	require.NotNil(t, def)

	assert.Equal(t, 1, def.Version)
	assert.Equal(t, "https://ccp.example.com", def.BaseURL)
	assert.Equal(t, "MyApp", def.AppID)
	assert.Equal(t, "/AIMWebService/api/Accounts", def.Endpoint)
	assert.Equal(t, 5000, def.TimeoutMs)
	assert.False(t, def.SkipTLSVerify)
	assert.Equal(t, "/etc/ssl/corp-ca.pem", def.RootCAs)

	require.NotNil(t, def.Certificate)
	assert.Equal(t, "/etc/ccp/client.p12", def.Certificate.File)
	require.NotNil(t, def.Certificate.PasswordKeyring)
	assert.Equal(t, "ccp", def.Certificate.PasswordKeyring.Service)
	assert.Equal(t, "client-p12", def.Certificate.PasswordKeyring.User)

	require.Len(t, def.AppCertificates, 2)
	assert.Equal(t, "/etc/ccp/other.pem", def.AppCertificates["OtherApp"].File)
	assert.Equal(t, "/etc/ccp/other.key", def.AppCertificates["OtherApp"].Key)
	assert.Equal(t, "AB:12:CD:34", def.AppCertificates["StoreApp"].Thumbprint)
	assert.Equal(t, "LocalMachine", def.AppCertificates["StoreApp"].StoreLocation)
	assert.Equal(t, "My", def.AppCertificates["StoreApp"].StoreName)
}

func TestConfig_Load_MinimalConfig(t *testing.T) {
	config := writeConfig(t, "version: 1\nbase_url: https://ccp.example.com\n")
	require.NoError(t, config.Load())

	assert.Equal(t, "https://ccp.example.com", config.Definition.BaseURL)
	assert.Empty(t, config.Definition.AppID)
	assert.Nil(t, config.Definition.Certificate)
}

func TestConfig_Load_MissingFile(t *testing.T) {
	t.Parallel()

	config := &Config{
		Path:   "/nonexistent/path/to/ccp.yaml",
		Logger: logging.New(false, true),
	}

	err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file not found")
}

func TestConfig_Load_InvalidYAML(t *testing.T) {
	config := writeConfig(t, "version: 1\nbase_url: [unclosed\n")

	err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid YAML syntax")
}

func TestConfig_Load_UnsupportedVersion(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"future_version", "version: 2\nbase_url: https://ccp.example.com\n"},
		{"missing_version", "base_url: https://ccp.example.com\n"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			config := writeConfig(t, tt.content)

			err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "unsupported configuration version")
		})
	}
}

func TestConfig_Load_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing_base_url",
			content: "version: 1\napp_id: MyApp\n",
		},
		{
			name: "unknown_store_location",
			content: `version: 1
base_url: https://ccp.example.com
certificate:
  thumbprint: AB12CD34
  store_location: Nowhere
`,
		},
		{
			name: "unknown_store_name",
			content: `version: 1
base_url: https://ccp.example.com
certificate:
  thumbprint: AB12CD34
  store_name: Secrets
`,
		},
		{
			name: "negative_timeout",
			content: `version: 1
base_url: https://ccp.example.com
timeout_ms: -5
`,
		},
		{
			name: "keyring_ref_missing_user",
			content: `version: 1
base_url: https://ccp.example.com
certificate:
  file: /etc/ccp/client.p12
  password_keyring:
    service: ccp
`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			config := writeConfig(t, tt.content)

			err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "schema validation failed")
		})
	}
}

func TestConfig_Load_EnvOverrides(t *testing.T) {
	// Not parallel: subtests mutate the process environment

	t.Run("base_url_and_app_id", func(t *testing.T) {
		t.Setenv("CCP_BASE_URL", "https://override.example.com")
		t.Setenv("CCP_APP_ID", "OverrideApp")

		config := writeConfig(t, "version: 1\nbase_url: https://ccp.example.com\napp_id: MyApp\n")
		require.NoError(t, config.Load())

		assert.Equal(t, "https://override.example.com", config.Definition.BaseURL)
		assert.Equal(t, "OverrideApp", config.Definition.AppID)
	})

	t.Run("base_url_satisfies_schema", func(t *testing.T) {
		// The file alone would fail schema validation
		t.Setenv("CCP_BASE_URL", "https://override.example.com")

		config := writeConfig(t, "version: 1\n")
		require.NoError(t, config.Load())

		assert.Equal(t, "https://override.example.com", config.Definition.BaseURL)
	})

	t.Run("cert_file_replaces_store_identity", func(t *testing.T) {
		t.Setenv("CCP_CERT_FILE", "/env/client.pem")

		config := writeConfig(t, `version: 1
base_url: https://ccp.example.com
certificate:
  thumbprint: AB12CD34
`)
		require.NoError(t, config.Load())

		require.NotNil(t, config.Definition.Certificate)
		assert.Equal(t, "/env/client.pem", config.Definition.Certificate.File)
		assert.Empty(t, config.Definition.Certificate.Thumbprint)
	})

	t.Run("cert_password_replaces_keyring_ref", func(t *testing.T) {
		t.Setenv("CCP_CERT_PASSWORD", "hunter2")

		config := writeConfig(t, `version: 1
base_url: https://ccp.example.com
certificate:
  file: /etc/ccp/client.p12
  password_keyring:
    service: ccp
    user: client-p12
`)
		require.NoError(t, config.Load())

		require.NotNil(t, config.Definition.Certificate)
		assert.Equal(t, "hunter2", config.Definition.Certificate.Password)
		assert.Nil(t, config.Definition.Certificate.PasswordKeyring)
	})

	t.Run("skip_tls_verify", func(t *testing.T) {
		for _, value := range []string{"true", "1"} {
			t.Setenv("CCP_SKIP_TLS_VERIFY", value)

			config := writeConfig(t, "version: 1\nbase_url: https://ccp.example.com\n")
			require.NoError(t, config.Load())
			assert.True(t, config.Definition.SkipTLSVerify, "value %q should enable skip_tls_verify", value)
		}
	})

	t.Run("skip_tls_verify_garbage_ignored", func(t *testing.T) {
		t.Setenv("CCP_SKIP_TLS_VERIFY", "yes please")

		config := writeConfig(t, "version: 1\nbase_url: https://ccp.example.com\n")
		require.NoError(t, config.Load())
		assert.False(t, config.Definition.SkipTLSVerify)
	})
}

func TestConfig_ToOptions(t *testing.T) {
	config := writeConfig(t, `version: 1
base_url: https://ccp.example.com
app_id: MyApp
endpoint: /custom/api
timeout_ms: 5000
skip_tls_verify: true
root_cas: /etc/ssl/corp-ca.pem

certificate:
  file: /etc/ccp/client.p12
  password: hunter2

app_certificates:
  OtherApp:
    file: /etc/ccp/other.pem
    key: /etc/ccp/other.key
  StoreApp:
    thumbprint: "AB:12:CD:34"
    store_location: LocalMachine
    store_name: My
`)
	require.NoError(t, config.Load())

	opts, err := config.ToOptions()
	require.NoError(t, err)

	assert.Equal(t, "https://ccp.example.com", opts.BaseURL)
	assert.Equal(t, "MyApp", opts.AppID)
	assert.Equal(t, "/custom/api", opts.Endpoint)
	assert.Equal(t, 5*time.Second, opts.Timeout)
	assert.True(t, opts.SkipTLSVerify)
	assert.Equal(t, "/etc/ssl/corp-ca.pem", opts.RootCAs)

	assert.Equal(t, ccp.CertificateConfig{
		File:     "/etc/ccp/client.p12",
		Password: "hunter2",
	}, opts.Certificate)

	require.Len(t, opts.AppCertificates, 2)
	assert.Equal(t, ccp.CertificateConfig{
		File: "/etc/ccp/other.pem",
		Key:  "/etc/ccp/other.key",
	}, opts.AppCertificates["OtherApp"])
	assert.Equal(t, ccp.CertificateConfig{
		Thumbprint:    "AB:12:CD:34",
		StoreLocation: ccp.StoreLocationLocalMachine,
		StoreName:     ccp.StoreNameMy,
	}, opts.AppCertificates["StoreApp"])
}

func TestConfig_ToOptions_DefaultTimeout(t *testing.T) {
	config := writeConfig(t, "version: 1\nbase_url: https://ccp.example.com\n")
	require.NoError(t, config.Load())

	opts, err := config.ToOptions()
	require.NoError(t, err)

	// Zero here; the client applies its own default
	assert.Equal(t, time.Duration(0), opts.Timeout)
}

func TestConfig_ToOptions_KeyringPassword(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set("ccp", "client-p12", "from-keyring"))

	config := writeConfig(t, `version: 1
base_url: https://ccp.example.com
certificate:
  file: /etc/ccp/client.p12
  password_keyring:
    service: ccp
    user: client-p12
`)
	require.NoError(t, config.Load())

	opts, err := config.ToOptions()
	require.NoError(t, err)

	assert.Equal(t, "from-keyring", opts.Certificate.Password)
}

func TestConfig_ToOptions_KeyringEntryMissing(t *testing.T) {
	keyring.MockInit()

	config := writeConfig(t, `version: 1
base_url: https://ccp.example.com
certificate:
  file: /etc/ccp/client.p12
  password_keyring:
    service: ccp-missing
    user: nobody
`)
	require.NoError(t, config.Load())

	_, err := config.ToOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read the certificate password from the OS keyring")
	assert.ErrorIs(t, err, keyring.ErrNotFound)
}

func TestConfig_ToOptions_PasswordConflict(t *testing.T) {
	config := writeConfig(t, `version: 1
base_url: https://ccp.example.com
certificate:
  file: /etc/ccp/client.p12
  password: hunter2
  password_keyring:
    service: ccp
    user: client-p12
`)
	require.NoError(t, config.Load())

	_, err := config.ToOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestConfig_ToOptions_NotLoaded(t *testing.T) {
	t.Parallel()

	config := &Config{Logger: logging.New(false, true)}

	_, err := config.ToOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Configuration not loaded")
}

func TestSchema(t *testing.T) {
	t.Parallel()

	schema := Schema()
	assert.NotEmpty(t, schema)
	assert.Contains(t, schema, "base_url")

	// The embedded schema must itself be valid JSON
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(schema), &parsed))
	assert.Equal(t, "object", parsed["type"])
}
