package cli

import (
	"fmt"
	"strings"

	epub "github.com/simp-lee/epub"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.epub>",
	Short: "Show the structure of a generated book",
	Long: `Inspect opens an EPUB file and prints its metadata, chapter list and
cover details. Useful for checking what a conversion actually produced.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	book, err := epub.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer book.Close()

	meta := book.Metadata()
	title := "(untitled)"
	if len(meta.Titles) > 0 {
		title = meta.Titles[0]
	}
	cmd.Printf("Title:    %s\n", title)
	cmd.Printf("Language: %s\n", strings.Join(meta.Language, ", "))
	cmd.Printf("Version:  EPUB %s\n", meta.Version)

	if cover, err := book.Cover(); err == nil {
		cmd.Printf("Cover:    %s (%s, %d bytes)\n", cover.Path, cover.MediaType, len(cover.Data))
	} else {
		cmd.Println("Cover:    none")
	}

	chapters := book.ContentChapters()
	cmd.Printf("Chapters: %d\n", len(chapters))
	if book.HasTOC() {
		for _, item := range book.TOC() {
			cmd.Printf("  - %s\n", item.Title)
		}
	}

	for _, warn := range book.Warnings() {
		cmd.Printf("Warning:  %s\n", warn)
	}
	return nil
}
