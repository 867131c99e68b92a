package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrNoCertsFound is returned when no certificates are found in a PEM file.
	ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM file")
)

// Pool manages a pool of trusted root certificates.
type Pool struct {
	certPool *x509.CertPool
	count    int
}

// NewPool creates a new certificate pool with system roots.
// If system roots cannot be loaded, it creates an empty pool.
func NewPool() *Pool {
	pool, err := x509.SystemCertPool()
	if err != nil {
		pool = x509.NewCertPool()
	}
	return &Pool{certPool: pool}
}

// NewEmptyPool creates a new empty certificate pool without system roots.
func NewEmptyPool() *Pool {
	return &Pool{certPool: x509.NewCertPool()}
}

// AddCertFile adds certificates from a PEM file.
// Multiple certificates in the same file are supported.
func (p *Pool) AddCertFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("tlsroots: read cert file %s: %w", path, err)
	}
	if err := p.AddCertPEM(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// AddCertPEM adds the CERTIFICATE blocks of PEM-encoded data.
func (p *Pool) AddCertPEM(pemData []byte) error {
	var added int

	for len(pemData) > 0 {
		var block *pem.Block
		block, pemData = pem.Decode(pemData)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return fmt.Errorf("tlsroots: parse certificate: %w", err)
		}
		p.certPool.AddCert(cert)
		added++
	}

	if added == 0 {
		return ErrNoCertsFound
	}
	p.count += added
	return nil
}

// AddCertDir adds every .pem, .crt and .cer file in dir. Files without
// certificates are skipped; unreadable or malformed files are errors.
func (p *Pool) AddCertDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("tlsroots: read dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".pem", ".crt", ".cer":
		default:
			continue
		}
		err := p.AddCertFile(filepath.Join(dir, entry.Name()))
		if err != nil && !errors.Is(err, ErrNoCertsFound) {
			return err
		}
	}
	return nil
}

// Added returns the number of certificates added beyond the system roots.
func (p *Pool) Added() int {
	return p.count
}

// Pool returns the underlying x509.CertPool.
func (p *Pool) Pool() *x509.CertPool {
	return p.certPool
}

// TLSConfig creates a client TLS config trusting this pool.
func (p *Pool) TLSConfig() *tls.Config {
	return &tls.Config{
		RootCAs:    p.certPool,
		MinVersion: tls.VersionTLS12,
	}
}

// ClientConfig returns the TLS config for a backend client. caPath may be
// a PEM file or a directory; its certificates are trusted in addition to
// the system roots. It returns nil when neither option is set, meaning
// the transport default.
func ClientConfig(caPath string, insecureSkipVerify bool) (*tls.Config, error) {
	if caPath == "" && !insecureSkipVerify {
		return nil, nil
	}

	pool := NewPool()
	if caPath != "" {
		info, err := os.Stat(caPath)
		if err != nil {
			return nil, fmt.Errorf("tlsroots: %w", err)
		}
		if info.IsDir() {
			err = pool.AddCertDir(caPath)
		} else {
			err = pool.AddCertFile(caPath)
		}
		if err != nil {
			return nil, err
		}
	}

	cfg := pool.TLSConfig()
	cfg.InsecureSkipVerify = insecureSkipVerify
	return cfg, nil
}
