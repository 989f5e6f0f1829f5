package probe

import (
	"runtime"
	"runtime/debug"
)

// kindModules names the third-party module each probe kind exercises.
// Kinds built on the standard library alone map to "std".
var kindModules = map[string]string{
	"serialize":   "gopkg.in/yaml.v3",
	"fakedata":    "github.com/brianvoe/gofakeit/v7",
	"image":       "github.com/fogleman/gg",
	"database":    "github.com/jackc/pgx/v5",
	"sqlite":      "modernc.org/sqlite",
	"validate":    "github.com/go-playground/validator/v10",
	"hash":        "golang.org/x/crypto",
	"token":       "github.com/golang-jwt/jwt/v5",
	"encrypt":     "golang.org/x/crypto",
	"clock":       "github.com/dustin/go-humanize",
	"collections": "github.com/samber/lo",
	"jsonquery":   "github.com/itchyny/gojq",
	"dns":         "std",
	"network":     "std",
}

// Library is one row of the version inventory.
type Library struct {
	Kind    string `json:"kind"`
	Module  string `json:"module"`
	Version string `json:"version"`
}

// Inventory reports the module and linked version behind each kind, in the
// order given. Versions read "unknown" when the binary carries no build info.
func Inventory(kinds []string) []Library {
	info, _ := debug.ReadBuildInfo()
	return inventory(kinds, info)
}

func inventory(kinds []string, info *debug.BuildInfo) []Library {
	versions := map[string]string{}
	if info != nil {
		for _, m := range info.Deps {
			v := m.Version
			if m.Replace != nil {
				v = m.Replace.Version
			}
			versions[m.Path] = v
		}
	}

	out := make([]Library, 0, len(kinds))
	for _, k := range kinds {
		lib := Library{Kind: k, Module: kindModules[k], Version: "unknown"}
		switch {
		case lib.Module == "":
			lib.Module = "unknown"
		case lib.Module == "std":
			lib.Version = runtime.Version()
		case versions[lib.Module] != "":
			lib.Version = versions[lib.Module]
		}
		out = append(out, lib)
	}
	return out
}

// GoVersion is the toolchain the binary was built with.
func GoVersion() string { return runtime.Version() }
