package blueprint

import (
	"fmt"
	"sort"
)

// CheckFiles compares the files a document references (font files and
// previews) with the files present in its folder. files may include the
// document itself; it is ignored.
func CheckFiles(doc *Document, files []string) Result {
	if doc == nil {
		return Result{}
	}

	type reference struct {
		path    string
		sources map[string]struct{}
	}
	refs := make(map[string]*reference)
	add := func(name, source, path string) {
		ref, ok := refs[name]
		if !ok {
			ref = &reference{path: path, sources: make(map[string]struct{})}
			refs[name] = ref
		}
		ref.sources[source] = struct{}{}
	}
	for i, font := range doc.Fonts {
		if font.File != nil {
			add(*font.File, "fonts", fmt.Sprintf("fonts[%d].file", i))
		}
	}
	for i, preview := range doc.Previews {
		add(preview, "previews", fmt.Sprintf("previews[%d]", i))
	}

	present := make(map[string]struct{}, len(files))
	for _, name := range files {
		if name != DocumentFile {
			present[name] = struct{}{}
		}
	}

	var out []Violation
	for _, name := range sortedKeys(refs) {
		ref := refs[name]
		if len(ref.sources) > 1 {
			out = append(out, Violation{
				Path:    ref.path,
				Rule:    RuleFileDuplicate,
				Message: fmt.Sprintf("%q is listed both as a font file and as a preview", name),
			})
		}
		if _, ok := present[name]; !ok {
			out = append(out, Violation{
				Path:    ref.path,
				Rule:    RuleFileMissing,
				Message: fmt.Sprintf("%q is referenced but not present in the blueprint folder", name),
			})
		}
	}
	for _, name := range sortedKeys(present) {
		if _, ok := refs[name]; !ok {
			out = append(out, Violation{
				Path:    name,
				Rule:    RuleFileExtra,
				Message: fmt.Sprintf("%q is in the blueprint folder but not referenced by the document", name),
			})
		}
	}
	return Result{Violations: out}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
