//go:build windows

package ccp

import (
	"crypto/sha1"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

// Certificate store constants from wincrypt.h not exposed by x/sys/windows.
const (
	certStoreProvSystem = 10
	certStoreProvMemory = 2

	certSystemStoreCurrentUser  = 0x00010000
	certSystemStoreLocalMachine = 0x00020000

	certStoreReadOnlyFlag     = 0x00008000
	certStoreOpenExistingFlag = 0x00004000

	certStoreAddAlways = 4

	reportNoPrivateKey              = 0x0001
	reportNotAbleToExportPrivateKey = 0x0002
	exportPrivateKeys               = 0x0004
)

// pfxExportPassword guards only the in-memory PFX round trip below.
const pfxExportPassword = "ccp-export"

var (
	crypt32                  = windows.NewLazySystemDLL("crypt32.dll")
	procPFXExportCertStoreEx = crypt32.NewProc("PFXExportCertStoreEx")
)

// cryptDataBlob mirrors CRYPT_DATA_BLOB for the PFX export call.
type cryptDataBlob struct {
	size uint32
	data *byte
}

// loadCertificateFromStore searches the configured Windows certificate store
// for a certificate whose SHA-1 thumbprint matches the configuration, then
// exports it together with its private key through an in-memory PFX archive.
func loadCertificateFromStore(cfg CertificateConfig) (*tls.Certificate, error) {
	want := cfg.normalizedThumbprint()

	storeName, err := windows.UTF16PtrFromString(string(cfg.storeName()))
	if err != nil {
		return nil, &CertificateError{
			Op:         "find",
			Thumbprint: cfg.Thumbprint,
			Err:        err,
		}
	}

	var locationFlag uint32 = certSystemStoreCurrentUser
	if cfg.location() == StoreLocationLocalMachine {
		locationFlag = certSystemStoreLocalMachine
	}

	store, err := windows.CertOpenStore(
		certStoreProvSystem,
		0,
		0,
		locationFlag|certStoreReadOnlyFlag|certStoreOpenExistingFlag,
		uintptr(unsafe.Pointer(storeName)),
	)
	if err != nil {
		return nil, &CertificateError{
			Op:         "find",
			Thumbprint: cfg.Thumbprint,
			Err:        fmt.Errorf("failed to open %s store: %w", cfg.storeName(), err),
		}
	}
	defer windows.CertCloseStore(store, 0)

	var ctx *windows.CertContext
	for {
		// Enumeration frees the previous context and ends with
		// CRYPT_E_NOT_FOUND once the store is exhausted.
		ctx, err = windows.CertEnumCertificatesInStore(store, ctx)
		if err != nil {
			break
		}

		der := unsafe.Slice(ctx.EncodedCert, int(ctx.Length))
		sum := sha1.Sum(der)
		if strings.ToUpper(hex.EncodeToString(sum[:])) != want {
			continue
		}

		cert, expErr := exportContext(ctx)
		windows.CertFreeCertificateContext(ctx)
		if expErr != nil {
			return nil, &CertificateError{
				Op:         "export",
				Thumbprint: cfg.Thumbprint,
				Err:        expErr,
			}
		}
		return cert, nil
	}

	return nil, &CertificateError{
		Op:         "find",
		Thumbprint: cfg.Thumbprint,
		Err:        ErrCertificateNotFound,
	}
}

// exportContext copies a store certificate context into a temporary memory
// store, exports it as a PFX archive, and decodes the archive back into a
// usable TLS certificate. The round trip is how the private key linked to
// the context leaves the store without touching disk.
func exportContext(ctx *windows.CertContext) (*tls.Certificate, error) {
	memStore, err := windows.CertOpenStore(certStoreProvMemory, 0, 0, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open memory store: %w", err)
	}
	defer windows.CertCloseStore(memStore, 0)

	if err := windows.CertAddCertificateContextToStore(memStore, ctx, certStoreAddAlways, nil); err != nil {
		return nil, fmt.Errorf("failed to stage certificate for export: %w", err)
	}

	pfx, err := exportPFX(memStore)
	if err != nil {
		return nil, err
	}

	key, leaf, caCerts, err := pkcs12.DecodeChain(pfx, pfxExportPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exported archive: %w", err)
	}

	cert := &tls.Certificate{
		Certificate: [][]byte{leaf.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}
	for _, ca := range caCerts {
		cert.Certificate = append(cert.Certificate, ca.Raw)
	}
	return cert, nil
}

// exportPFX runs the two-call size-then-fill PFXExportCertStoreEx sequence.
func exportPFX(store windows.Handle) ([]byte, error) {
	password, err := windows.UTF16PtrFromString(pfxExportPassword)
	if err != nil {
		return nil, err
	}

	var blob cryptDataBlob
	if err := pfxExportCertStore(store, &blob, password); err != nil {
		return nil, fmt.Errorf("failed to size export: %w", err)
	}
	if blob.size == 0 {
		return nil, fmt.Errorf("export produced no data")
	}

	buf := make([]byte, blob.size)
	blob.data = &buf[0]
	if err := pfxExportCertStore(store, &blob, password); err != nil {
		return nil, fmt.Errorf("failed to export: %w", err)
	}
	return buf[:blob.size], nil
}

func pfxExportCertStore(store windows.Handle, blob *cryptDataBlob, password *uint16) error {
	r1, _, err := procPFXExportCertStoreEx.Call(
		uintptr(store),
		uintptr(unsafe.Pointer(blob)),
		uintptr(unsafe.Pointer(password)),
		0,
		uintptr(exportPrivateKeys|reportNoPrivateKey|reportNotAbleToExportPrivateKey),
	)
	if r1 == 0 {
		return err
	}
	return nil
}
