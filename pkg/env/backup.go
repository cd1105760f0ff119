package env

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/segmentio/ksuid"
	"gopkg.in/yaml.v3"
)

// ManifestName is the file written into every backup directory.
const ManifestName = "MANIFEST.yaml"

// Manifest records the identity and provenance of one backup.
type Manifest struct {
	ID        string    `yaml:"id"`
	Source    string    `yaml:"source"`
	CreatedAt time.Time `yaml:"created_at"`
	LastTxnID uint64    `yaml:"last_txn_id"`
}

// Copy writes a consistent live backup of the environment into dir via
// a store checkpoint, plus a manifest naming the backup. The target
// must not already exist.
func (e *Env) Copy(dir string) (*Manifest, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, &EnvError{fmt.Sprintf("target %q already exists", dir)}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := e.db.Checkpoint(dir); err != nil {
		return nil, fmt.Errorf("checkpoint to %s: %w", dir, err)
	}

	man := &Manifest{
		ID:        ksuid.New().String(),
		Source:    e.opts.Path,
		CreatedAt: time.Now().UTC(),
		LastTxnID: e.txnID.Load(),
	}
	data, err := yaml.Marshal(man)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestName), data, 0600); err != nil {
		return nil, err
	}
	return man, nil
}

// CopyFD streams a consistent backup of the environment to an already
// open descriptor as a tar archive of the checkpoint files.
func (e *Env) CopyFD(out *os.File) error {
	tmp, err := os.MkdirTemp("", "valkyr-copyfd-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	ckpt := filepath.Join(tmp, "checkpoint")
	if _, err := e.Copy(ckpt); err != nil {
		return err
	}

	tw := tar.NewWriter(out)
	entries, err := os.ReadDir(ckpt)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = entry.Name()
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		f, err := os.Open(filepath.Join(ckpt, entry.Name()))
		if err != nil {
			return err
		}
		_, err = io.Copy(tw, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	return tw.Close()
}
