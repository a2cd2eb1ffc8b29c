package export

import (
	"encoding/json"
	"sort"

	"github.com/revmark/revmark/internal/annotation"
)

type jsonAnnotation struct {
	FilePath  string `json:"file_path"`
	StartLine uint32 `json:"start_line"`
	EndLine   uint32 `json:"end_line"`
	Text      string `json:"text"`
}

type jsonFile struct {
	File        string           `json:"file"`
	Annotations []jsonAnnotation `json:"annotations"`
}

type jsonRoot struct {
	Files            []jsonFile `json:"files"`
	TotalAnnotations int        `json:"total_annotations"`
}

// JSON renders annotations grouped by file as pretty-printed JSON.
func JSON(annotations []annotation.Annotation) (string, error) {
	byFile := groupByFile(annotations)
	files := sortedFiles(byFile)

	root := jsonRoot{
		Files:            make([]jsonFile, 0, len(files)),
		TotalAnnotations: len(annotations),
	}

	for _, file := range files {
		anns := byFile[file]
		sort.Slice(anns, func(i, j int) bool { return anns[i].StartLine < anns[j].StartLine })

		jf := jsonFile{File: file, Annotations: make([]jsonAnnotation, 0, len(anns))}
		for _, a := range anns {
			jf.Annotations = append(jf.Annotations, jsonAnnotation{
				FilePath:  a.FilePath,
				StartLine: a.StartLine,
				EndLine:   a.EndLine,
				Text:      a.Text,
			})
		}
		root.Files = append(root.Files, jf)
	}

	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
