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

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	bans := map[string][]string{
		"seqalign/internal/scoring": {
			"seqalign/internal/engine", "seqalign/internal/pipeline", "seqalign/internal/csvcodec",
			"seqalign/internal/config", "seqalign/internal/app", "seqalign/cmd/",
		},
		"seqalign/internal/engine": {
			"seqalign/internal/pipeline", "seqalign/internal/writers", "seqalign/internal/csvcodec",
			"seqalign/internal/output", "seqalign/internal/config",
			"seqalign/internal/cli", "seqalign/internal/app", "seqalign/cmd/",
		},
		"seqalign/internal/csvcodec": {
			"seqalign/internal/pipeline", "seqalign/internal/writers", "seqalign/internal/config",
			"seqalign/internal/cli", "seqalign/internal/app", "seqalign/cmd/",
		},
		"seqalign/internal/pipeline": {
			"seqalign/internal/appcore", "seqalign/internal/app", "seqalign/internal/config",
			"seqalign/internal/cli", "seqalign/internal/writers", "seqalign/internal/output",
			"seqalign/cmd/",
		},
		"seqalign/internal/writers": {
			"seqalign/internal/appcore", "seqalign/internal/app", "seqalign/internal/config",
			"seqalign/internal/cli", "seqalign/internal/pipeline", "seqalign/cmd/",
		},
		"seqalign/internal/output": {
			"seqalign/internal/appcore", "seqalign/internal/app",
			"seqalign/internal/cli", "seqalign/internal/pipeline", "seqalign/cmd/",
		},
		"seqalign/internal/pretty": {
			"seqalign/internal/appcore", "seqalign/internal/app",
			"seqalign/internal/cli", "seqalign/internal/pipeline", "seqalign/cmd/",
		},
		"seqalign/pkg/": {
			"seqalign/internal/",
		},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "seqalign/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "seqalign/") {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
