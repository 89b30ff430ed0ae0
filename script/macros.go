package script

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed macros/*.tengo
var macrosFS embed.FS

// Macros lists the bundled macro names without extension.
func Macros() []string {
	entries, err := fs.ReadDir(macrosFS, "macros")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".tengo"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// LoadMacro returns the source of a bundled macro. The name may carry the
// "macros/" prefix and the ".tengo" extension.
func LoadMacro(name string) ([]byte, error) {
	name = strings.TrimPrefix(path.Clean(strings.ReplaceAll(name, "\\", "/")), "macros/")
	name = strings.TrimSuffix(name, ".tengo")
	return macrosFS.ReadFile("macros/" + name + ".tengo")
}

// Resolve loads a macro by file path or bundled name. Files on disk win so a
// local copy can shadow a bundled macro.
func Resolve(ref string) (name string, src []byte, err error) {
	name = strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref))
	if info, statErr := os.Stat(ref); statErr == nil && !info.IsDir() {
		src, err = os.ReadFile(ref)
		return name, src, err
	}
	src, err = LoadMacro(ref)
	return name, src, err
}
