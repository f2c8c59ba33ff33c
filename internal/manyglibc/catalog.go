package manyglibc

import (
	"fmt"
	"sort"
)

// TargetSpec is one build configuration: a glibc variant built with one
// cross toolchain. Specs are registered once at startup and never mutated.
type TargetSpec struct {
	Name             string   // identifier, e.g. "armv7-neon-linux-gnueabihf"
	Arch             string   // glibc architecture, e.g. "armv7-neon"
	OS               string   // OS/ABI suffix, e.g. "linux-gnueabihf"
	Variant          string   // optional disambiguator, e.g. "soft"
	ToolchainDir     string   // toolchain directory name under the compilers base
	ToolchainTriplet string   // triplet prefix of the cross tools, e.g. "arm-glibc-linux-gnueabihf"
	CCOpts           []string // extra compiler flags appended to CC/CXX
	ConfigureOpts    []string // extra options appended to the configure line
}

// HostTriplet returns the --host triplet for this target.
func (t TargetSpec) HostTriplet() string {
	return t.Arch + "-" + t.OS
}

// Catalog maps target identifiers to their specs. Populated once by
// NewCatalog; registering a duplicate identifier is a programming error in
// the static tables below and panics.
type Catalog struct {
	specs map[string]TargetSpec
}

func (c *Catalog) register(t TargetSpec) {
	if _, dup := c.specs[t.Name]; dup {
		panic(fmt.Sprintf("duplicate target %s", t.Name))
	}
	c.specs[t.Name] = t
}

// Lookup returns the spec for an identifier.
func (c *Catalog) Lookup(id string) (TargetSpec, bool) {
	t, ok := c.specs[id]
	return t, ok
}

// Names returns every registered identifier, sorted lexicographically.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.specs))
	for name := range c.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// member describes one glibc build done with a family's toolchain. Zero
// values inherit from the family.
type member struct {
	arch    string   // overrides the family arch in the identifier and --host
	variant string   // overrides the family variant
	ccopts  []string // instruction-set/ABI selection flags
	cfg     []string // configure-time options (CPU hints, dispatch toggles)
}

// family registers the builds sharing one cross toolchain. The toolchain
// lives in <compilers>/<arch>-<os>[-<variant>] and its binaries are named
// <arch>-glibc-<os>-<tool>. With no explicit members a single default build
// is registered.
func (c *Catalog) family(arch, osName, variant string, members ...member) {
	if len(members) == 0 {
		members = []member{{}}
	}
	dir := arch + "-" + osName
	if variant != "" {
		dir += "-" + variant
	}
	triplet := arch + "-glibc-" + osName
	for _, m := range members {
		t := TargetSpec{
			Arch:             arch,
			OS:               osName,
			Variant:          variant,
			ToolchainDir:     dir,
			ToolchainTriplet: triplet,
			CCOpts:           m.ccopts,
			ConfigureOpts:    m.cfg,
		}
		if m.arch != "" {
			t.Arch = m.arch
		}
		if m.variant != "" {
			t.Variant = m.variant
		}
		t.Name = t.Arch + "-" + t.OS
		if t.Variant != "" {
			t.Name += "-" + t.Variant
		}
		c.register(t)
	}
}

// NewCatalog builds the full target registry.
func NewCatalog() *Catalog {
	c := &Catalog{specs: make(map[string]TargetSpec)}
	c.addAllTargets()
	return c
}

func (c *Catalog) addAllTargets() {
	// On architectures missing __builtin_trap support these options are
	// needed as a workaround; see
	// <https://gcc.gnu.org/bugzilla/show_bug.cgi?id=70216> for SH.
	noIsolate := []string{
		"-fno-isolate-erroneous-paths-dereference",
		"-fno-isolate-erroneous-paths-attribute",
	}

	c.family("aarch64", "linux-gnu", "")
	c.family("aarch64_be", "linux-gnu", "")
	c.family("alpha", "linux-gnu", "")
	c.family("arm", "linux-gnueabi", "",
		member{},
		member{arch: "armv7", ccopts: []string{"-march=armv7-a"}})
	c.family("armeb", "linux-gnueabi", "")
	c.family("armeb", "linux-gnueabi", "be8",
		member{ccopts: []string{"-mbe8"}})
	c.family("arm", "linux-gnueabihf", "",
		member{},
		member{arch: "armv7", ccopts: []string{"-march=armv7-a"}},
		member{arch: "armv7-neon",
			ccopts: []string{"-march=armv7-a", "-mfpu=neon"}},
		member{arch: "armv7-neonhard",
			ccopts: []string{"-march=armv7-a", "-mfpu=neon", "-mfloat-abi=hard"}})
	c.family("armeb", "linux-gnueabihf", "")
	c.family("armeb", "linux-gnueabihf", "be8",
		member{ccopts: []string{"-mbe8"}})
	c.family("csky", "linux-gnuabiv2", "")
	c.family("csky", "linux-gnuabiv2", "soft")
	c.family("hppa", "linux-gnu", "")
	c.family("i686", "gnu", "")
	c.family("x86_64", "gnu", "")
	c.family("m68k", "linux-gnu", "")
	c.family("m68k", "linux-gnu", "coldfire")
	c.family("microblaze", "linux-gnu", "")
	c.family("microblazeel", "linux-gnu", "")
	c.family("mips64", "linux-gnu", "",
		member{arch: "mips64-n32"},
		member{arch: "mips", ccopts: []string{"-mabi=32"}},
		member{arch: "mips64", ccopts: []string{"-mabi=64"}})
	c.family("mips64", "linux-gnu", "soft",
		member{arch: "mips64-n32", variant: "soft"},
		member{arch: "mips", variant: "soft", ccopts: []string{"-mabi=32"}},
		member{arch: "mips64", variant: "soft", ccopts: []string{"-mabi=64"}})
	c.family("mips64el", "linux-gnu", "",
		member{arch: "mips64el-n32"},
		member{arch: "mipsel", ccopts: []string{"-mabi=32"}},
		member{arch: "mips64el", ccopts: []string{"-mabi=64"}})
	c.family("nios2", "linux-gnu", "")
	c.family("powerpc", "linux-gnu", "",
		member{},
		member{variant: "power4",
			ccopts: []string{"-mcpu=power4"},
			cfg:    []string{"--with-cpu=power4"}})
	c.family("powerpc", "linux-gnu", "soft")
	c.family("powerpc64", "linux-gnu", "")
	c.family("powerpc64le", "linux-gnu", "",
		member{},
		member{variant: "power9",
			ccopts: []string{"-mcpu=power9"},
			cfg:    []string{"--with-cpu=power9"}},
		member{variant: "disable-multi-arch",
			cfg: []string{"--disable-multi-arch"}})
	c.family("riscv32", "linux-gnu", "rv32imac-ilp32",
		member{ccopts: []string{"-march=rv32imac", "-mabi=ilp32"}})
	c.family("riscv32", "linux-gnu", "rv32imafdc-ilp32d",
		member{ccopts: []string{"-march=rv32imafdc", "-mabi=ilp32d"}})
	c.family("riscv64", "linux-gnu", "rv64imac-lp64",
		member{ccopts: []string{"-march=rv64imac", "-mabi=lp64"}})
	c.family("riscv64", "linux-gnu", "rv64imafdc-lp64d",
		member{ccopts: []string{"-march=rv64imafdc", "-mabi=lp64d"}})
	c.family("s390x", "linux-gnu", "",
		member{},
		member{arch: "s390", ccopts: []string{"-m31"}},
		member{variant: "z13", ccopts: []string{"-march=z13"}})
	c.family("sh4", "linux-gnu", "",
		member{},
		member{variant: "soft",
			ccopts: noIsolate,
			cfg:    []string{"--without-fp"}})
	c.family("sparc64", "linux-gnu", "",
		member{ccopts: []string{"-mcpu=niagara"}},
		member{arch: "sparcv9",
			ccopts: []string{"-m32", "-mlong-double-128"}},
		member{variant: "disable-multi-arch",
			ccopts: []string{"-mcpu=niagara"},
			cfg:    []string{"--disable-multi-arch"}},
		member{arch: "sparcv9", variant: "disable-multi-arch",
			ccopts: []string{"-m32", "-mlong-double-128"},
			cfg:    []string{"--disable-multi-arch"}})
	c.family("x86_64", "linux-gnu", "",
		member{},
		member{variant: "x32", ccopts: []string{"-mx32"}},
		member{arch: "i686", ccopts: []string{"-m32", "-march=i686"}},
		member{variant: "v2", ccopts: []string{"-march=x86-64-v2"}},
		member{variant: "v3", ccopts: []string{"-march=x86-64-v3"}},
		member{variant: "v4", ccopts: []string{"-march=x86-64-v4"}},
		member{variant: "disable-multi-arch",
			cfg: []string{"--disable-multi-arch"}},
		member{arch: "i686", variant: "disable-multi-arch",
			ccopts: []string{"-m32", "-march=i686"},
			cfg:    []string{"--disable-multi-arch"}},
		member{arch: "i486", ccopts: []string{"-m32", "-march=i486"}},
		member{arch: "i586", ccopts: []string{"-m32", "-march=i586"}})
}
