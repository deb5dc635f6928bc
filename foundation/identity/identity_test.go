package identity_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/identity"
)

func Test_Identity(t *testing.T) {
	dir := t.TempDir()

	id, err := identity.Generate(filepath.Join(dir, "miner1.ecdsa"))
	if err != nil {
		t.Fatalf("Should be able to generate a key: %s", err)
	}

	if !strings.HasPrefix(id, "0x") || len(id) != 42 {
		t.Fatalf("Should get back an address identifier, got %q.", id)
	}

	loaded, err := identity.Load(filepath.Join(dir, "miner1.ecdsa"))
	if err != nil {
		t.Fatalf("Should be able to load the key: %s", err)
	}
	if loaded != id {
		t.Fatalf("Should load the same identifier, got %q, exp %q.", loaded, id)
	}

	random, err := identity.Load("")
	if err != nil || len(random) != 32 || strings.Contains(random, "-") {
		t.Fatalf("Should get a dash-less uuid without a key file, got %q: %v.", random, err)
	}

	ns, err := identity.NewNameService(dir)
	if err != nil {
		t.Fatalf("Should be able to build the name service: %s", err)
	}
	if name := ns.Lookup(id); name != "miner1" {
		t.Fatalf("Should get back the key file name, got %q.", name)
	}
	if name := ns.Lookup("unknown"); name != "unknown" {
		t.Fatalf("Should get back the identifier for an unknown id, got %q.", name)
	}

	empty, err := identity.NewNameService(filepath.Join(dir, "missing"))
	if err != nil || len(empty.Copy()) != 0 {
		t.Fatalf("Should get an empty name service for a missing folder: %v.", err)
	}
}
