package ccp

import (
	"fmt"
	"strings"
)

// StoreLocation names a Windows system certificate store location.
type StoreLocation string

const (
	StoreLocationCurrentUser  StoreLocation = "CurrentUser"
	StoreLocationLocalMachine StoreLocation = "LocalMachine"
)

// Valid reports whether the location is one of the known values.
func (l StoreLocation) Valid() bool {
	switch l {
	case StoreLocationCurrentUser, StoreLocationLocalMachine:
		return true
	}
	return false
}

// StoreName names a Windows system certificate store.
type StoreName string

const (
	StoreNameMy               StoreName = "My"
	StoreNameRoot             StoreName = "Root"
	StoreNameCA               StoreName = "CA"
	StoreNameTrust            StoreName = "Trust"
	StoreNameDisallowed       StoreName = "Disallowed"
	StoreNameAuthRoot         StoreName = "AuthRoot"
	StoreNameTrustedPeople    StoreName = "TrustedPeople"
	StoreNameTrustedPublisher StoreName = "TrustedPublisher"
	StoreNameAddressBook      StoreName = "AddressBook"
)

// Valid reports whether the name is one of the known system stores.
func (n StoreName) Valid() bool {
	switch n {
	case StoreNameMy, StoreNameRoot, StoreNameCA, StoreNameTrust,
		StoreNameDisallowed, StoreNameAuthRoot, StoreNameTrustedPeople,
		StoreNameTrustedPublisher, StoreNameAddressBook:
		return true
	}
	return false
}

// CertificateConfig describes one client-certificate identity, either as a
// file on disk or as a thumbprint in a platform certificate store. At most
// one of File and Thumbprint may be set; neither set means "no certificate".
type CertificateConfig struct {
	// File is the path to a PEM pair or a PKCS#12 (.p12/.pfx) bundle.
	File string

	// Key optionally names a separate PEM private key file when File holds
	// only the certificate.
	Key string

	// Password decrypts a PKCS#12 bundle. A non-empty password forces the
	// PKCS#12 path regardless of file extension.
	Password string

	// Thumbprint is the hex-encoded SHA-1 fingerprint of a certificate in a
	// platform store. Separators (colons, spaces) and case are ignored.
	Thumbprint string

	// StoreLocation and StoreName select the store searched for Thumbprint.
	// Defaults are CurrentUser and My.
	StoreLocation StoreLocation
	StoreName     StoreName
}

// IsConfigured reports whether the config selects a certificate at all.
func (c CertificateConfig) IsConfigured() bool {
	return c.File != "" || c.Thumbprint != ""
}

// Validate rejects configs that set both file and thumbprint, and store
// configs naming an unknown location or store.
func (c CertificateConfig) Validate() error {
	if c.File != "" && c.Thumbprint != "" {
		return &CertificateError{Op: "config", File: c.File, Thumbprint: c.Thumbprint, Err: ErrCertificateAmbiguous}
	}
	if c.Thumbprint != "" {
		if c.StoreLocation != "" && !c.StoreLocation.Valid() {
			return &CertificateError{
				Op:         "config",
				Thumbprint: c.Thumbprint,
				Err:        fmt.Errorf("unknown store location %q", c.StoreLocation),
			}
		}
		if c.StoreName != "" && !c.StoreName.Valid() {
			return &CertificateError{
				Op:         "config",
				Thumbprint: c.Thumbprint,
				Err:        fmt.Errorf("unknown store name %q", c.StoreName),
			}
		}
	}
	return nil
}

// location returns the configured store location, defaulting to CurrentUser.
func (c CertificateConfig) location() StoreLocation {
	if c.StoreLocation == "" {
		return StoreLocationCurrentUser
	}
	return c.StoreLocation
}

// storeName returns the configured store name, defaulting to My.
func (c CertificateConfig) storeName() StoreName {
	if c.StoreName == "" {
		return StoreNameMy
	}
	return c.StoreName
}

// normalizedThumbprint strips separators and upper-cases the thumbprint so
// equivalent spellings compare equal.
func (c CertificateConfig) normalizedThumbprint() string {
	tp := strings.NewReplacer(":", "", " ", "", "-", "").Replace(c.Thumbprint)
	return strings.ToUpper(tp)
}

// certIdentity is the comparable cache key for one certificate identity:
// (file, key, password) in file mode, (thumbprint, location, name) in store
// mode.
type certIdentity struct {
	file       string
	key        string
	password   string
	thumbprint string
	location   StoreLocation
	store      StoreName
}

// identity computes the cache key for the config. Store-mode values are
// normalized first so identical certificates share one transport.
func (c CertificateConfig) identity() certIdentity {
	if c.File != "" {
		return certIdentity{file: c.File, key: c.Key, password: c.Password}
	}
	return certIdentity{
		thumbprint: c.normalizedThumbprint(),
		location:   c.location(),
		store:      c.storeName(),
	}
}

// String describes the identity for log lines without leaking the password.
func (id certIdentity) String() string {
	if id.file != "" {
		return "file:" + id.file
	}
	return "store:" + id.thumbprint
}
