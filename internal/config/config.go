package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"

	ccperrors "github.com/systmms/ccp-go/internal/errors"
	"github.com/systmms/ccp-go/internal/logging"
	"github.com/systmms/ccp-go/pkg/ccp"
)

// Config holds the runtime configuration
type Config struct {
	Path       string
	Logger     *logging.Logger
	Debug      bool
	Definition *Definition
}

// Definition represents the ccp.yaml structure. Fields carry both yaml
// tags (parsing) and json tags (schema validation of the parsed struct).
type Definition struct {
	Version         int                        `yaml:"version" json:"version"`
	BaseURL         string                     `yaml:"base_url,omitempty" json:"base_url,omitempty"`
	AppID           string                     `yaml:"app_id,omitempty" json:"app_id,omitempty"`
	Endpoint        string                     `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	TimeoutMs       int                        `yaml:"timeout_ms,omitempty" json:"timeout_ms,omitempty"`
	SkipTLSVerify   bool                       `yaml:"skip_tls_verify,omitempty" json:"skip_tls_verify,omitempty"`
	RootCAs         string                     `yaml:"root_cas,omitempty" json:"root_cas,omitempty"`
	Certificate     *CertificateDef            `yaml:"certificate,omitempty" json:"certificate,omitempty"`
	AppCertificates map[string]*CertificateDef `yaml:"app_certificates,omitempty" json:"app_certificates,omitempty"`
}

// CertificateDef describes one client certificate in ccp.yaml, either a
// file on disk or a thumbprint in a platform certificate store.
type CertificateDef struct {
	File            string      `yaml:"file,omitempty" json:"file,omitempty"`
	Key             string      `yaml:"key,omitempty" json:"key,omitempty"`
	Password        string      `yaml:"password,omitempty" json:"password,omitempty"`
	PasswordKeyring *KeyringRef `yaml:"password_keyring,omitempty" json:"password_keyring,omitempty"`
	Thumbprint      string      `yaml:"thumbprint,omitempty" json:"thumbprint,omitempty"`
	StoreLocation   string      `yaml:"store_location,omitempty" json:"store_location,omitempty"`
	StoreName       string      `yaml:"store_name,omitempty" json:"store_name,omitempty"`
}

// KeyringRef points at an OS keyring entry that holds a certificate
// password, so the password never lives in ccp.yaml itself.
type KeyringRef struct {
	Service string `yaml:"service" json:"service"`
	User    string `yaml:"user" json:"user"`
}

// Load reads, parses and validates the ccp.yaml file
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return ccperrors.ConfigError{
				Field:      "path",
				Value:      c.Path,
				Message:    "configuration file not found",
				Suggestion: "Create a ccp.yaml or point --config at an existing one",
			}
		}
		return ccperrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	// Parse configuration
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return ccperrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}

	// Validate version
	if def.Version != 1 {
		return ccperrors.ConfigError{
			Field:      "version",
			Value:      def.Version,
			Message:    "unsupported configuration version",
			Suggestion: "Set 'version: 1' at the top of your ccp.yaml file",
		}
	}

	// Environment overrides apply before schema validation so the merged
	// configuration is what gets checked.
	applyEnvOverrides(&def)

	if err := validateWithSchema(&def); err != nil {
		return ccperrors.ConfigError{
			Message:    err.Error(),
			Suggestion: "Run 'ccp schema' to inspect the expected structure",
		}
	}

	c.Definition = &def
	return nil
}

// applyEnvOverrides lets environment variables take precedence over file
// values, for CI environments where editing ccp.yaml is impractical.
func applyEnvOverrides(def *Definition) {
	if v := os.Getenv("CCP_BASE_URL"); v != "" {
		def.BaseURL = v
	}
	if v := os.Getenv("CCP_APP_ID"); v != "" {
		def.AppID = v
	}
	if v := os.Getenv("CCP_CERT_FILE"); v != "" {
		if def.Certificate == nil {
			def.Certificate = &CertificateDef{}
		}
		// The env file replaces the whole certificate identity
		def.Certificate.File = v
		def.Certificate.Thumbprint = ""
	}
	if v := os.Getenv("CCP_CERT_PASSWORD"); v != "" {
		if def.Certificate == nil {
			def.Certificate = &CertificateDef{}
		}
		def.Certificate.Password = v
		def.Certificate.PasswordKeyring = nil
	}
	if v := os.Getenv("CCP_SKIP_TLS_VERIFY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			def.SkipTLSVerify = b
		}
	}
}

// validateWithSchema validates the definition against the embedded JSON
// schema. The struct is marshaled to JSON first, which is why Definition
// carries json tags alongside the yaml ones.
func validateWithSchema(def *Definition) error {
	jsonData, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration for validation: %w", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(jsonData)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		return fmt.Errorf("schema validation failed:\n  - %s", strings.Join(errorMessages, "\n  - "))
	}

	return nil
}

// ToOptions converts the loaded definition into client options, resolving
// keyring-indirect certificate passwords along the way.
func (c *Config) ToOptions() (ccp.Options, error) {
	if c.Definition == nil {
		return ccp.Options{}, ccperrors.UserError{
			Message:    "Configuration not loaded",
			Suggestion: "This is an internal error. Please report it",
		}
	}

	def := c.Definition

	opts := ccp.Options{
		BaseURL:       def.BaseURL,
		AppID:         def.AppID,
		Endpoint:      def.Endpoint,
		SkipTLSVerify: def.SkipTLSVerify,
		RootCAs:       def.RootCAs,
		Debug:         c.Debug,
	}

	if def.TimeoutMs > 0 {
		opts.Timeout = time.Duration(def.TimeoutMs) * time.Millisecond
	}

	if def.Certificate != nil {
		cert, err := def.Certificate.toCertificate("certificate")
		if err != nil {
			return ccp.Options{}, err
		}
		opts.Certificate = cert
	}

	if len(def.AppCertificates) > 0 {
		opts.AppCertificates = make(map[string]ccp.CertificateConfig, len(def.AppCertificates))
		for appID, certDef := range def.AppCertificates {
			if certDef == nil {
				continue
			}
			cert, err := certDef.toCertificate(fmt.Sprintf("app_certificates[%s]", appID))
			if err != nil {
				return ccp.Options{}, err
			}
			opts.AppCertificates[appID] = cert
		}
	}

	return opts, nil
}

// toCertificate resolves one certificate definition, fetching the password
// from the OS keyring when the definition references one.
func (d *CertificateDef) toCertificate(field string) (ccp.CertificateConfig, error) {
	cert := ccp.CertificateConfig{
		File:          d.File,
		Key:           d.Key,
		Password:      d.Password,
		Thumbprint:    d.Thumbprint,
		StoreLocation: ccp.StoreLocation(d.StoreLocation),
		StoreName:     ccp.StoreName(d.StoreName),
	}

	if d.PasswordKeyring != nil {
		if d.Password != "" {
			return ccp.CertificateConfig{}, ccperrors.ConfigError{
				Field:      field,
				Message:    "password and password_keyring are mutually exclusive",
				Suggestion: "Remove one of the two password sources",
			}
		}
		password, err := keyring.Get(d.PasswordKeyring.Service, d.PasswordKeyring.User)
		if err != nil {
			return ccp.CertificateConfig{}, ccperrors.UserError{
				Message:    fmt.Sprintf("Failed to read the certificate password from the OS keyring (%s/%s)", d.PasswordKeyring.Service, d.PasswordKeyring.User),
				Details:    err.Error(),
				Suggestion: "Store the password with your platform keyring tool, or set 'password' directly in ccp.yaml",
				Err:        err,
			}
		}
		cert.Password = password
	}

	return cert, nil
}
