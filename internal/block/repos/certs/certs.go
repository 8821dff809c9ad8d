// Package certs provisions the self-signed certificate pair the HTTPS
// block page listener serves. Browsers will warn about it; that friction
// is intentional. Generation is delegated to openssl as an opaque external
// operation, and the resulting pair is cached on disk across restarts.
package certs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pravsels/deepwork/internal/block/common/log"
	"github.com/pravsels/deepwork/internal/block/gateways/execer"
)

const (
	certName = "block.crt"
	keyName  = "block.key"

	subject = "/CN=DeepWork Block/O=Focus Mode/C=US"
	sanExt  = "subjectAltName=IP:127.0.0.1,DNS:localhost"
)

// Pair is a certificate/key file pair on disk.
type Pair struct {
	CertFile string
	KeyFile  string
}

// Manager provisions and caches the certificate pair under one directory.
type Manager struct {
	dir    string
	run    execer.Runner
	logger log.Logger
}

// New creates a Manager rooted at dir.
func New(dir string, run execer.Runner, logger log.Logger) *Manager {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Manager{dir: dir, run: run, logger: logger}
}

// Ensure returns the cached certificate pair, generating it first when
// either file is absent. The key file ends up owner-read/write only.
func (m *Manager) Ensure(ctx context.Context) (Pair, error) {
	pair := Pair{
		CertFile: filepath.Join(m.dir, certName),
		KeyFile:  filepath.Join(m.dir, keyName),
	}

	if fileExists(pair.CertFile) && fileExists(pair.KeyFile) {
		m.logger.Debug(map[string]any{"cert": pair.CertFile}, "reusing existing certificate pair")
		return pair, nil
	}

	if err := os.MkdirAll(m.dir, 0o700); err != nil {
		return Pair{}, fmt.Errorf("creating cert dir: %w", err)
	}

	m.logger.Info(map[string]any{"dir": m.dir}, "generating self-signed certificate")
	_, err := m.run.Run(ctx, "openssl", "req", "-x509",
		"-newkey", "rsa:2048",
		"-keyout", pair.KeyFile,
		"-out", pair.CertFile,
		"-days", "3650",
		"-nodes",
		"-subj", subject,
		"-addext", sanExt,
	)
	if err != nil {
		return Pair{}, err
	}

	if err := os.Chmod(pair.KeyFile, 0o600); err != nil {
		return Pair{}, fmt.Errorf("securing key file: %w", err)
	}

	m.logger.Info(map[string]any{"cert": pair.CertFile}, "certificate generated")
	return pair, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
