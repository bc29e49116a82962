package blueprint

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	perrors "github.com/matzehuels/plotkit/pkg/errors"
)

// catalogFile is the on-disk layout of a blueprint catalog.
type catalogFile struct {
	Blueprints []Blueprint `toml:"blueprint"`
}

// Decode parses a TOML catalog from r. The returned blueprints are validated.
func Decode(r io.Reader) ([]Blueprint, error) {
	var cat catalogFile
	md, err := toml.NewDecoder(r).Decode(&cat)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidBlueprint, err, "decode catalog")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, perrors.New(perrors.ErrCodeInvalidBlueprint, "unknown catalog keys: %v", undecoded)
	}
	for _, bp := range cat.Blueprints {
		if err := bp.Validate(); err != nil {
			return nil, err
		}
	}
	return cat.Blueprints, nil
}

// LoadFile reads and validates a TOML catalog file.
func LoadFile(path string) ([]Blueprint, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "catalog %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	bps, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bps, nil
}

// LoadFile registers every blueprint of a TOML catalog file.
func (r *Registry) LoadFile(path string) error {
	bps, err := LoadFile(path)
	if err != nil {
		return err
	}
	for _, bp := range bps {
		if err := r.Register(bp); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

// Encode writes blueprints as a TOML catalog.
func Encode(w io.Writer, bps []Blueprint) error {
	return toml.NewEncoder(w).Encode(catalogFile{Blueprints: bps})
}
