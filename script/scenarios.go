package script

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed scenarios/*.tengo
var scenarioFS embed.FS

// Scenario returns a bundled scenario by name, with or without the .tengo
// extension.
func Scenario(name string) ([]byte, error) {
	if !strings.HasSuffix(name, ".tengo") {
		name += ".tengo"
	}
	data, err := scenarioFS.ReadFile(path.Join("scenarios", name))
	if err != nil {
		return nil, fmt.Errorf("script: scenario %s: %w", name, err)
	}
	return data, nil
}

// Scenarios lists the bundled scenario names.
func Scenarios() []string {
	entries, err := fs.ReadDir(scenarioFS, "scenarios")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), ".tengo"))
	}
	sort.Strings(out)
	return out
}
