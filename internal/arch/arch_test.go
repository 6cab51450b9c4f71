// internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

// Outer layers: nothing in the core may depend on them.
var outer = []string{
	"metaxsfr/internal/appcore", "metaxsfr/internal/appshell",
	"metaxsfr/internal/processapp", "metaxsfr/internal/compileapp",
	"metaxsfr/internal/generateapp", "metaxsfr/internal/runapp",
	"metaxsfr/internal/batch", "metaxsfr/internal/cli",
	"metaxsfr/internal/logging", "metaxsfr/internal/store/",
	"metaxsfr/cmd/",
}

func TestImportBoundaries(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go tool not on PATH")
	}
	cmd := exec.Command("go", "list", "-json", "./...")
	cmd.Dir = "../.."
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	core := []string{
		"metaxsfr/internal/taxon", "metaxsfr/internal/ranks", "metaxsfr/internal/lineage",
		"metaxsfr/internal/report", "metaxsfr/internal/summary", "metaxsfr/internal/pipeline",
		"metaxsfr/internal/pivot", "metaxsfr/internal/template", "metaxsfr/internal/payload",
		"metaxsfr/internal/output", "metaxsfr/internal/writers", "metaxsfr/internal/config",
	}
	bans := map[string][]string{}
	for _, c := range core {
		bans[c] = outer
	}
	// The decoders and the lineage scan never render output.
	for _, c := range []string{"metaxsfr/internal/report", "metaxsfr/internal/lineage", "metaxsfr/internal/summary"} {
		bans[c] = append(append([]string{}, outer...), "metaxsfr/internal/output", "metaxsfr/internal/writers")
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "metaxsfr/") {
			continue
		}
		imp := p.ImportPath
		forbidden, ok := bans[imp]
		if !ok {
			continue
		}
		for _, dep := range p.Imports {
			if !strings.HasPrefix(dep, "metaxsfr/") {
				continue
			}
			for _, ban := range forbidden {
				if strings.HasPrefix(dep, ban) {
					violations = append(violations, imp+" → "+dep)
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
