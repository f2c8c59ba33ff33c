package manyglibc

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// builtinGroups are the named shorthands for common target sets. Member
// order is the order targets appear in when a group token is expanded.
var builtinGroups = map[string][]string{
	"arm": {
		"arm-linux-gnueabi",
		"armv7-linux-gnueabi",
		"arm-linux-gnueabihf",
		"armv7-linux-gnueabihf",
		"armv7-neon-linux-gnueabihf",
		"armv7-neonhard-linux-gnueabihf",
		"armeb-linux-gnueabi",
		"armeb-linux-gnueabihf",
	},
	"mips": {
		"mips-linux-gnu",
		"mips64-n32-linux-gnu",
		"mips64-linux-gnu",
		"mips-linux-gnu-soft",
		"mips64-n32-linux-gnu-soft",
		"mips64-linux-gnu-soft",
		"mipsel-linux-gnu",
		"mips64el-n32-linux-gnu",
		"mips64el-linux-gnu",
	},
	"power": {
		"powerpc-linux-gnu",
		"powerpc-linux-gnu-power4",
		"powerpc-linux-gnu-soft",
		"powerpc64-linux-gnu",
		"powerpc64le-linux-gnu",
		"powerpc64le-linux-gnu-power9",
		"powerpc64le-linux-gnu-disable-multi-arch",
	},
	"powerpc64": {
		"powerpc64-linux-gnu",
		"powerpc64le-linux-gnu",
		"powerpc64le-linux-gnu-power9",
		"powerpc64le-linux-gnu-disable-multi-arch",
	},
	"riscv": {
		"riscv32-linux-gnu-rv32imac-ilp32",
		"riscv32-linux-gnu-rv32imafdc-ilp32d",
		"riscv64-linux-gnu-rv64imac-lp64",
		"riscv64-linux-gnu-rv64imafdc-lp64d",
	},
	"s390": {
		"s390x-linux-gnu",
		"s390-linux-gnu",
		"s390x-linux-gnu-z13",
	},
	"sparc": {
		"sparc64-linux-gnu",
		"sparcv9-linux-gnu",
		"sparc64-linux-gnu-disable-multi-arch",
		"sparcv9-linux-gnu-disable-multi-arch",
	},
	"x86": {
		"x86_64-linux-gnu",
		"x86_64-linux-gnu-x32",
		"x86_64-linux-gnu-v2",
		"x86_64-linux-gnu-v3",
		"x86_64-linux-gnu-v4",
		"i686-linux-gnu",
		"i586-linux-gnu",
		"i486-linux-gnu",
	},
	// One target per distinct ABI, for check-abi/update-abi runs.
	"abi": {
		"aarch64-linux-gnu",
		"alpha-linux-gnu",
		"arm-linux-gnueabihf",
		"csky-linux-gnuabiv2",
		"hppa-linux-gnu",
		"i686-linux-gnu",
		"m68k-linux-gnu",
		"m68k-linux-gnu-coldfire",
		"microblaze-linux-gnu",
		"mips-linux-gnu",
		"mips64-n32-linux-gnu",
		"mips64-linux-gnu",
		"mips-linux-gnu-soft",
		"nios2-linux-gnu",
		"powerpc-linux-gnu",
		"powerpc-linux-gnu-soft",
		"powerpc64-linux-gnu",
		"powerpc64le-linux-gnu",
		"riscv32-linux-gnu-rv32imafdc-ilp32d",
		"riscv64-linux-gnu-rv64imafdc-lp64d",
		"s390-linux-gnu",
		"s390x-linux-gnu",
		"sh4-linux-gnu",
		"sparc64-linux-gnu",
		"sparcv9-linux-gnu",
		"x86_64-linux-gnu",
		"x86_64-linux-gnu-x32",
		"i686-gnu",
	},
}

// loadUserGroups reads the optional per-user group aliases. User groups
// shadow builtin ones with the same name. A missing file is not an error.
func loadUserGroups(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	groups := make(map[string][]string)
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return groups, nil
}

func userGroupsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".manyglibc-groups.yaml")
}

// Expand resolves user-supplied tokens into a flat, order-preserving list
// of target identifiers. Group tokens are substituted with their member
// list in place; everything else passes through untouched (unknown
// identifiers are caught later, per target). An empty token list means
// every registered target, sorted.
func (c *Catalog) Expand(tokens []string, userGroups map[string][]string) []string {
	if len(tokens) == 0 {
		return c.Names()
	}
	var out []string
	for _, tok := range tokens {
		if members, ok := userGroups[tok]; ok {
			out = append(out, members...)
			continue
		}
		if members, ok := builtinGroups[tok]; ok {
			out = append(out, members...)
			continue
		}
		out = append(out, tok)
	}
	return out
}
