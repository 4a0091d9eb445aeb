package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NilsSchnorr/MeshNotes/internal/annotation"
	"github.com/NilsSchnorr/MeshNotes/internal/annotation/docio"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Summarize an annotation document",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	doc, report, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	kinds := map[annotation.Kind]int{}
	entries := 0
	versions := 0
	for _, a := range doc.Annotations {
		kinds[a.Geometry.Kind()]++
		entries += len(a.Entries)
		for _, e := range a.Entries {
			versions += len(e.Versions)
		}
	}

	fmt.Printf("Document: %s\n", args[0])
	fmt.Printf("  Up axis:     %s\n", doc.UpAxis)
	fmt.Printf("  Groups:      %d\n", len(doc.Groups))
	fmt.Printf("  Annotations: %d\n", len(doc.Annotations))
	for _, k := range []annotation.Kind{
		annotation.KindPoint, annotation.KindLine, annotation.KindPolygon,
		annotation.KindSurface, annotation.KindBox,
	} {
		if kinds[k] > 0 {
			fmt.Printf("    %-9s %d\n", string(k)+":", kinds[k])
		}
	}
	fmt.Printf("  Entries:     %d (%d version snapshots)\n", entries, versions)
	fmt.Printf("  Model info:  %d entries\n", len(doc.ModelInfo))
	if report.SkippedAnnotations > 0 || report.SkippedFaces > 0 {
		fmt.Printf("  Skipped:     %d annotations, %d face refs\n",
			report.SkippedAnnotations, report.SkippedFaces)
	}
	return nil
}

func loadDocument(path string) (*annotation.Document, *docio.ImportReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	doc, report, err := docio.Import(data, log)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, report, nil
}
