// Package digest fingerprints source archives and project trees as nix hashes.
package digest

import (
	"fmt"
	"io"
	"os"

	"zombiezen.com/go/nix"
	"zombiezen.com/go/nix/nar"
)

// Digest is a SHA-256 content hash in the encodings nix tooling accepts.
// Base16 and Base32 carry the "sha256:" type prefix.
type Digest struct {
	Path   string `yaml:"path" json:"path"`
	Mode   string `yaml:"mode" json:"mode"` // flat or nar
	Base16 string `yaml:"base16" json:"base16"`
	Base32 string `yaml:"base32" json:"base32"`
	SRI    string `yaml:"sri" json:"sri"`
}

const (
	ModeFlat = "flat"
	ModeNar  = "nar"
)

// File hashes the content of a single file, such as an sdist archive
func File(path string) (*Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := nix.NewHasher(nix.SHA256)
	if _, err := io.Copy(h, f); err != nil {
		return nil, fmt.Errorf("hashing %s: %w", path, err)
	}
	return newDigest(path, ModeFlat, h.SumHash()), nil
}

// Tree hashes the NAR serialization of a file or directory. The result only
// depends on names, contents, executable bits and symlink targets.
func Tree(path string) (*Digest, error) {
	if _, err := os.Lstat(path); err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	h := nix.NewHasher(nix.SHA256)
	if err := nar.DumpPath(h, path); err != nil {
		return nil, fmt.Errorf("serializing %s: %w", path, err)
	}
	return newDigest(path, ModeNar, h.SumHash()), nil
}

func newDigest(path, mode string, sum nix.Hash) *Digest {
	return &Digest{
		Path:   path,
		Mode:   mode,
		Base16: sum.Base16(),
		Base32: sum.Base32(),
		SRI:    sum.SRI(),
	}
}
