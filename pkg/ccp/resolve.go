package ccp

// effectiveAppID picks the application ID for a request: the request's own
// if set, else the options default. Neither set is a configuration error —
// the service authorizes every call by application ID.
func effectiveAppID(req SecretRequest, opts Options) (string, error) {
	if req.AppID != "" {
		return req.AppID, nil
	}
	if opts.AppID != "" {
		return opts.AppID, nil
	}
	return "", &ConfigError{
		Field:      "app_id",
		Message:    "no application ID configured",
		Suggestion: "Set Options.AppID or SecretRequest.AppID",
		Err:        ErrAppIDMissing,
	}
}

// effectiveCertificate picks the client certificate for a request, first
// match wins: the request's own certificate, the certificate mapped to the
// effective application ID, the options default, or none. The mapping is
// keyed by the EFFECTIVE application ID, which may itself be the options
// default rather than anything the request carried.
func effectiveCertificate(req SecretRequest, appID string, opts Options) CertificateConfig {
	if req.Certificate.IsConfigured() {
		return req.Certificate
	}
	if cert, ok := opts.AppCertificates[appID]; ok && cert.IsConfigured() {
		return cert
	}
	if opts.Certificate.IsConfigured() {
		return opts.Certificate
	}
	return CertificateConfig{}
}
