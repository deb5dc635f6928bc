// Package identity provides the identifier a node is paid mining rewards
// under, and a lookup of friendly names for known identifiers.
package identity

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// keyExtension is the file extension for ECDSA private key files.
const keyExtension = ".ecdsa"

// Load returns the node identifier. With a key file, the identifier is the
// address of the key's public key. Without one, a random identifier is
// generated for the life of the process.
func Load(keyFile string) (string, error) {
	if keyFile == "" {
		return strings.ReplaceAll(uuid.NewString(), "-", ""), nil
	}

	privateKey, err := crypto.LoadECDSA(keyFile)
	if err != nil {
		return "", fmt.Errorf("loading key file %q: %w", keyFile, err)
	}

	return FromKey(privateKey), nil
}

// FromKey returns the identifier for the specified private key.
func FromKey(privateKey *ecdsa.PrivateKey) string {
	return crypto.PubkeyToAddress(privateKey.PublicKey).Hex()
}

// Generate writes a new private key to the specified file and returns the
// identifier for it.
func Generate(keyFile string) (string, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generating key: %w", err)
	}

	if dir := filepath.Dir(keyFile); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating key folder: %w", err)
		}
	}

	if err := crypto.SaveECDSA(keyFile, privateKey); err != nil {
		return "", fmt.Errorf("saving key file %q: %w", keyFile, err)
	}

	return FromKey(privateKey), nil
}

// =============================================================================

// NameService maintains a map of identifiers for name lookup.
type NameService struct {
	names map[string]string
}

// NewNameService constructs a name service from the key files in the
// specified folder. The file name without the extension is the name. A
// missing folder produces an empty name service.
func NewNameService(root string) (*NameService, error) {
	ns := NameService{
		names: make(map[string]string),
	}

	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return &ns, nil
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if path.Ext(fileName) != keyExtension {
			return nil
		}

		privateKey, err := crypto.LoadECDSA(fileName)
		if err != nil {
			return err
		}

		ns.names[FromKey(privateKey)] = strings.TrimSuffix(path.Base(fileName), keyExtension)

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified identifier. The identifier is
// returned when no name is known.
func (ns *NameService) Lookup(id string) string {
	name, exists := ns.names[id]
	if !exists {
		return id
	}
	return name
}

// Copy returns a copy of the map of identifiers and names.
func (ns *NameService) Copy() map[string]string {
	names := make(map[string]string, len(ns.names))
	for id, name := range ns.names {
		names[id] = name
	}
	return names
}
