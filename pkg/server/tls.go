package server

import (
	"crypto/tls"
	"fmt"
)

// TLSConfig names the certificate files for HTTPS.
type TLSConfig struct {
	CertFile string
	KeyFile  string
}

// Enabled reports whether both files are set.
func (c TLSConfig) Enabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// LoadCertificates loads TLS certificates from files.
func (c TLSConfig) LoadCertificates() ([]tls.Certificate, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("certfile and keyfile must be specified")
	}

	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load certificates: %w", err)
	}
	return []tls.Certificate{cert}, nil
}

// ServerTLSConfig returns the server's TLS configuration: TLS 1.2 or newer,
// modern curves, HTTP/2 negotiated first.
func ServerTLSConfig(certificates []tls.Certificate) *tls.Config {
	return &tls.Config{
		Certificates: certificates,
		MinVersion:   tls.VersionTLS12,
		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
		},
		NextProtos: []string{"h2", "http/1.1"},
	}
}
