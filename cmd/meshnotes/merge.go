package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NilsSchnorr/MeshNotes/internal/annotation/docio"
	"github.com/NilsSchnorr/MeshNotes/internal/annotation/merge"
)

var flagMergeOut string

var mergeCmd = &cobra.Command{
	Use:   "merge [local] [imported]",
	Short: "Merge an imported annotation document into a local one",
	Long: `Merge reconciles two independently edited annotation documents.
Entities match by stable UUID (groups also by name); within matched
annotations, the side with the strictly newer timestamp wins each
entry, and version histories from both sides are preserved.`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&flagMergeOut, "out", "o", "", "write the merged document to this file (default: stdout)")
	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	local, _, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	imported, _, err := loadDocument(args[1])
	if err != nil {
		return err
	}

	st := merge.New(log).Merge(local, imported)
	fmt.Printf("Merged %s into %s: %d added, %d updated, %d unchanged",
		args[1], args[0], st.Added, st.Updated, st.Unchanged)
	if st.GroupsAdded > 0 {
		fmt.Printf(", %d new groups", st.GroupsAdded)
	}
	if st.Skipped > 0 {
		fmt.Printf(", %d skipped", st.Skipped)
	}
	fmt.Println()
	if n := len(st.Reproject); n > 0 {
		fmt.Printf("%d annotations need their surface polylines reprojected on next load\n", n)
	}

	data, err := docio.Export(local)
	if err != nil {
		return fmt.Errorf("exporting merged document: %w", err)
	}
	if flagMergeOut == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(flagMergeOut, data, 0644)
}
