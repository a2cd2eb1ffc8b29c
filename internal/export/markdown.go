// Package export renders persisted annotations into the Markdown and
// JSON formats the (out-of-scope) CLI export surface exposes.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/revmark/revmark/internal/annotation"
)

// Markdown renders annotations grouped by file, files and within-file
// annotations both sorted ascending.
func Markdown(annotations []annotation.Annotation) string {
	if len(annotations) == 0 {
		return "# Annotations\n\nNo annotations found.\n"
	}

	byFile := groupByFile(annotations)
	files := sortedFiles(byFile)

	var out strings.Builder
	out.WriteString("# Annotations\n\n")

	for _, file := range files {
		anns := byFile[file]
		sort.Slice(anns, func(i, j int) bool { return anns[i].StartLine < anns[j].StartLine })

		fmt.Fprintf(&out, "## `%s`\n\n", file)
		for _, a := range anns {
			if a.StartLine == a.EndLine {
				fmt.Fprintf(&out, "- **Line %d**: %s\n", a.StartLine, a.Text)
			} else {
				fmt.Fprintf(&out, "- **Lines %d-%d**: %s\n", a.StartLine, a.EndLine, a.Text)
			}
		}
		out.WriteString("\n")
	}

	return out.String()
}

func groupByFile(annotations []annotation.Annotation) map[string][]annotation.Annotation {
	byFile := make(map[string][]annotation.Annotation)
	for _, a := range annotations {
		byFile[a.FilePath] = append(byFile[a.FilePath], a)
	}
	return byFile
}

func sortedFiles(byFile map[string][]annotation.Annotation) []string {
	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}
