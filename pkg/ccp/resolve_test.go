package ccp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEffectiveAppID validates request-over-options precedence
func TestEffectiveAppID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		requestID   string
		optionsID   string
		want        string
		wantMissing bool
	}{
		{
			name:      "request_wins_over_options",
			requestID: "RequestApp",
			optionsID: "DefaultApp",
			want:      "RequestApp",
		},
		{
			name:      "options_fill_absent_request",
			optionsID: "DefaultApp",
			want:      "DefaultApp",
		},
		{
			name:      "request_only",
			requestID: "RequestApp",
			want:      "RequestApp",
		},
		{
			name:        "neither_configured",
			wantMissing: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := SecretRequest{Object: "obj", AppID: tt.requestID}
			opts := Options{BaseURL: "https://ccp.example.com", AppID: tt.optionsID}

			got, err := effectiveAppID(req, opts)
			if tt.wantMissing {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrAppIDMissing))

				var cfgErr *ConfigError
				require.True(t, errors.As(err, &cfgErr))
				assert.Equal(t, "app_id", cfgErr.Field)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestEffectiveCertificate validates the four-step certificate priority
func TestEffectiveCertificate(t *testing.T) {
	t.Parallel()

	requestCert := CertificateConfig{File: "request.pem"}
	mappedCert := CertificateConfig{File: "mapped.pem"}
	defaultCert := CertificateConfig{File: "default.pem"}

	tests := []struct {
		name    string
		reqCert CertificateConfig
		mapped  map[string]CertificateConfig
		defCert CertificateConfig
		want    CertificateConfig
	}{
		{
			name:    "request_cert_wins_over_all",
			reqCert: requestCert,
			mapped:  map[string]CertificateConfig{"MyApp": mappedCert},
			defCert: defaultCert,
			want:    requestCert,
		},
		{
			name:    "mapped_cert_wins_over_default",
			mapped:  map[string]CertificateConfig{"MyApp": mappedCert},
			defCert: defaultCert,
			want:    mappedCert,
		},
		{
			name:    "default_cert_when_no_mapping_matches",
			mapped:  map[string]CertificateConfig{"OtherApp": mappedCert},
			defCert: defaultCert,
			want:    defaultCert,
		},
		{
			name: "no_certificate_at_all",
			want: CertificateConfig{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := SecretRequest{Object: "obj", Certificate: tt.reqCert}
			opts := Options{
				BaseURL:         "https://ccp.example.com",
				Certificate:     tt.defCert,
				AppCertificates: tt.mapped,
			}

			got := effectiveCertificate(req, "MyApp", opts)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestEffectiveCertificateUsesEffectiveAppID validates that the mapping is
// consulted with the resolved application ID, not only the request's own
func TestEffectiveCertificateUsesEffectiveAppID(t *testing.T) {
	t.Parallel()

	mappedCert := CertificateConfig{File: "mapped.pem"}
	opts := Options{
		BaseURL:         "https://ccp.example.com",
		AppID:           "DefaultApp",
		AppCertificates: map[string]CertificateConfig{"DefaultApp": mappedCert},
	}

	// Request carries no AppID; resolution falls back to the options default,
	// and the mapping must be keyed by that resolved ID.
	req := SecretRequest{Object: "obj"}
	appID, err := effectiveAppID(req, opts)
	require.NoError(t, err)

	got := effectiveCertificate(req, appID, opts)
	assert.Equal(t, mappedCert, got)
}
