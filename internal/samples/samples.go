// Package samples provides a small set of demo packages. They seed the
// standalone packages service and serve as fixtures in tests.
package samples

import (
	"fmt"

	"github.com/hel-repo/hel/internal/document"
)

type sample struct {
	desc     string
	authors  []any
	tags     []any
	versions []string
	ranges   [3]string
}

var sampleSet = []sample{
	{"My first", []any{"Tester", "Crackes"}, []any{"aaa", "xxx", "zzz"}, []string{"1.0.0", "1.1.0", "1.1.1"}, [3]string{"~1.1", "^5", "*"}},
	{"My second", []any{"Tester", "Kjers"}, []any{"xxx", "yyy", "ccc"}, []string{"1.0.0", "1.0.1", "1.0.2"}, [3]string{"~1", "^3.5.6", "*"}},
	{"My third", []any{"Tester", "Nyemst"}, []any{"aaa", "ccc", "zzz"}, []string{"1.0.0", "1.1.0", "1.2.0"}, [3]string{"~1.12.51", "^3.5", "*"}},
}

var (
	dirs     = [3]string{"/bin", "/lib", "/man"}
	depTypes = [3]string{"required", "optional", "recommended"}
)

// Packages returns fresh copies of the demo packages package-1 ... package-3
// in the shape accepted by package creation, owned by "Tester".
func Packages() []document.Doc {
	out := make([]document.Doc, 0, len(sampleSet))
	for i, s := range sampleSet {
		n := i + 1
		versions := document.Doc{}
		for j, num := range s.versions {
			files := document.Doc{}
			for k := 0; k < 3; k++ {
				idx := 3*j + k + 1
				files[fmt.Sprintf("http://example.com/file%d%d", n, idx)] = document.Doc{
					"dir":  dirs[k],
					"name": fmt.Sprintf("test-%d-file-%d", n, idx),
				}
			}
			depends := document.Doc{}
			for k := 0; k < 3; k++ {
				depends[fmt.Sprintf("dpackage-%d", 3*i+k+1)] = document.Doc{
					"version": s.ranges[k],
					"type":    depTypes[k],
				}
			}
			versions[num] = document.Doc{
				"files":   files,
				"depends": depends,
				"changes": fmt.Sprintf("Change %d%d.", n, j+1),
			}
		}
		shots := document.Doc{}
		for k := 1; k <= 3; k++ {
			shots[fmt.Sprintf("http://img.example.com/img%d%d", n, k)] = fmt.Sprintf("test-%d-img-%d", n, k)
		}
		out = append(out, document.Doc{
			"name":              fmt.Sprintf("package-%d", n),
			"description":       s.desc + " test package.",
			"short_description": fmt.Sprintf("%d package.", n),
			"owners":            []any{"Tester"},
			"authors":           append([]any(nil), s.authors...),
			"license":           fmt.Sprintf("mylicense-%d", n),
			"tags":              append([]any(nil), s.tags...),
			"versions":          versions,
			"screenshots":       shots,
		})
	}
	return out
}
