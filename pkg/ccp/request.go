package ccp

// SecretRequest describes one account lookup. Object is the only required
// field; everything else narrows the search or overrides client defaults.
// Values are plain data: build one with a struct literal, or start from
// NewSecretRequest and chain the With helpers, each of which returns a
// modified copy and never mutates its receiver.
type SecretRequest struct {
	// Object is the account identifier. Required.
	Object string

	// Safe and Folder narrow the lookup to a container.
	Safe   string
	Folder string

	// AppID overrides the client's default application ID for this request.
	AppID string

	// Certificate overrides every other certificate source for this
	// request.
	Certificate CertificateConfig

	// Search attributes, each included in the query only when non-empty.
	UserName string
	Address  string
	Database string
	PolicyID string

	// Params holds additional query parameters passed through verbatim.
	// Entries with an empty key or value are skipped.
	Params map[string]string
}

// NewSecretRequest returns a request for the named object.
func NewSecretRequest(object string) SecretRequest {
	return SecretRequest{Object: object}
}

// WithSafe returns a copy of the request scoped to the named safe.
func (r SecretRequest) WithSafe(safe string) SecretRequest {
	r.Safe = safe
	return r
}

// WithFolder returns a copy of the request scoped to the named folder.
func (r SecretRequest) WithFolder(folder string) SecretRequest {
	r.Folder = folder
	return r
}

// WithAppID returns a copy of the request carrying its own application ID.
func (r SecretRequest) WithAppID(appID string) SecretRequest {
	r.AppID = appID
	return r
}

// WithCertificate returns a copy of the request carrying its own client
// certificate.
func (r SecretRequest) WithCertificate(cert CertificateConfig) SecretRequest {
	r.Certificate = cert
	return r
}

// WithUserName returns a copy of the request filtered by account username.
func (r SecretRequest) WithUserName(userName string) SecretRequest {
	r.UserName = userName
	return r
}

// WithAddress returns a copy of the request filtered by account address.
func (r SecretRequest) WithAddress(address string) SecretRequest {
	r.Address = address
	return r
}

// WithDatabase returns a copy of the request filtered by database name.
func (r SecretRequest) WithDatabase(database string) SecretRequest {
	r.Database = database
	return r
}

// WithPolicyID returns a copy of the request filtered by policy ID.
func (r SecretRequest) WithPolicyID(policyID string) SecretRequest {
	r.PolicyID = policyID
	return r
}

// WithParam returns a copy of the request with one extra query parameter.
// The parameter map is copied so the original request is untouched.
func (r SecretRequest) WithParam(key, value string) SecretRequest {
	params := make(map[string]string, len(r.Params)+1)
	for k, v := range r.Params {
		params[k] = v
	}
	params[key] = value
	r.Params = params
	return r
}
