package manyglibc

import (
	"sort"
	"strings"
	"testing"
)

func TestCatalogLookup(t *testing.T) {
	c := NewCatalog()

	spec, ok := c.Lookup("x86_64-linux-gnu")
	if !ok {
		t.Fatal("x86_64-linux-gnu not registered")
	}
	if spec.Arch != "x86_64" || spec.OS != "linux-gnu" || spec.Variant != "" {
		t.Errorf("unexpected spec: %+v", spec)
	}
	if spec.HostTriplet() != "x86_64-linux-gnu" {
		t.Errorf("host triplet = %s", spec.HostTriplet())
	}
	if spec.ToolchainTriplet != "x86_64-glibc-linux-gnu" {
		t.Errorf("toolchain triplet = %s", spec.ToolchainTriplet)
	}

	if _, ok := c.Lookup("pdp11-linux-gnu"); ok {
		t.Error("lookup of unregistered target succeeded")
	}
}

func TestCatalogVariantNaming(t *testing.T) {
	c := NewCatalog()

	spec, ok := c.Lookup("x86_64-linux-gnu-v3")
	if !ok {
		t.Fatal("x86_64-linux-gnu-v3 not registered")
	}
	if spec.Variant != "v3" {
		t.Errorf("variant = %q", spec.Variant)
	}
	if len(spec.CCOpts) != 1 || spec.CCOpts[0] != "-march=x86-64-v3" {
		t.Errorf("ccopts = %v", spec.CCOpts)
	}

	// A member arch override keeps the family's toolchain.
	spec, ok = c.Lookup("armv7-neon-linux-gnueabihf")
	if !ok {
		t.Fatal("armv7-neon-linux-gnueabihf not registered")
	}
	if spec.ToolchainDir != "arm-linux-gnueabihf" {
		t.Errorf("toolchain dir = %s", spec.ToolchainDir)
	}
	if spec.ToolchainTriplet != "arm-glibc-linux-gnueabihf" {
		t.Errorf("toolchain triplet = %s", spec.ToolchainTriplet)
	}
	if spec.HostTriplet() != "armv7-neon-linux-gnueabihf" {
		t.Errorf("host triplet = %s", spec.HostTriplet())
	}

	// A family variant lands in both the identifier and the toolchain dir.
	spec, ok = c.Lookup("m68k-linux-gnu-coldfire")
	if !ok {
		t.Fatal("m68k-linux-gnu-coldfire not registered")
	}
	if spec.ToolchainDir != "m68k-linux-gnu-coldfire" {
		t.Errorf("toolchain dir = %s", spec.ToolchainDir)
	}
}

func TestCatalogConfigureOpts(t *testing.T) {
	c := NewCatalog()

	spec, ok := c.Lookup("powerpc-linux-gnu-power4")
	if !ok {
		t.Fatal("powerpc-linux-gnu-power4 not registered")
	}
	found := false
	for _, opt := range spec.ConfigureOpts {
		if opt == "--with-cpu=power4" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing --with-cpu=power4 in %v", spec.ConfigureOpts)
	}
}

func TestCatalogNamesSorted(t *testing.T) {
	c := NewCatalog()
	names := c.Names()
	if len(names) < 50 {
		t.Fatalf("catalog unexpectedly small: %d entries", len(names))
	}
	if !sort.StringsAreSorted(names) {
		t.Error("Names() not sorted")
	}
	seen := make(map[string]bool)
	for _, n := range names {
		if seen[n] {
			t.Errorf("duplicate name %s", n)
		}
		seen[n] = true
	}
}

func TestCatalogDuplicateRegistrationPanics(t *testing.T) {
	c := NewCatalog()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("duplicate registration did not panic")
		}
		if !strings.Contains(r.(string), "duplicate target") {
			t.Errorf("unexpected panic value: %v", r)
		}
	}()
	c.family("aarch64", "linux-gnu", "")
}

func TestBuiltinGroupsResolve(t *testing.T) {
	c := NewCatalog()
	for group, members := range builtinGroups {
		for _, id := range members {
			if _, ok := c.Lookup(id); !ok {
				t.Errorf("group %s references unknown target %s", group, id)
			}
		}
	}
}
