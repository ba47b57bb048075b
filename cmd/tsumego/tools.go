package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tsumego/internal/adapters"
	"tsumego/internal/codec"
	"tsumego/internal/domain/sgf"
	gameUC "tsumego/internal/usecase/game"
	"tsumego/internal/usecase/tasks"
)

var (
	listLevel int
	listPage  int
	pdfOutput string
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Parse records and verify they survive a write and re-read",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

var listCmd = &cobra.Command{
	Use:   "list <dir>",
	Short: "List the problems of a directory by chapter",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

var pdfCmd = &cobra.Command{
	Use:   "pdf <file>...",
	Short: "Print the problems of the given files as a PDF worksheet",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPDF,
}

func init() {
	listCmd.Flags().IntVar(&listLevel, "level", -1, "chapter level, -1 for all")
	listCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	pdfCmd.Flags().StringVarP(&pdfOutput, "output", "o", "problems.pdf", "output file")
}

func runCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0

	for _, path := range args {
		n, err := checkRecord(path)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(out, "ok   %s (%d records)\n", path, n)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

// checkRecord parses path, writes every record back out and parses the
// result again; both writes must agree.
func checkRecord(path string) (int, error) {
	data, err := store.ReadRecord(path)
	if err != nil {
		return 0, err
	}

	tree := sgf.NewTree()
	roots, err := codec.Decode(bytes.NewReader(data), tree)
	if err != nil {
		return 0, err
	}

	for i, root := range roots {
		first := codec.String(tree, root)
		again, err := codec.DecodeString(first, tree)
		if err != nil {
			return 0, fmt.Errorf("record %d: re-read: %w", i+1, err)
		}
		if second := codec.String(tree, again[0]); second != first {
			return 0, fmt.Errorf("record %d: round trip differs", i+1)
		}
	}
	return len(roots), nil
}

func runList(cmd *cobra.Command, args []string) error {
	uc := tasks.NewTaskUseCase(store, cfg.PageLimitTasks)
	resp, err := uc.GetTasksByLevelByPage(args[0], listLevel, listPage)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, tk := range resp.Tasks {
		fmt.Fprintf(out, "%5d  level %-3d %s\n", tk.TaskUniqNumber, tk.TaskLevel, tk.TaskPath)
	}
	fmt.Fprintf(out, "page %d of %d, %d problems\n", resp.PageNum, resp.TotalPages, resp.TotalTasks)
	return nil
}

func runPDF(cmd *cobra.Command, args []string) error {
	col := newCollection(store, 0)
	if err := col.LoadFiles(gameUC.ModeReplay, args); err != nil {
		return err
	}
	if col.Len() == 0 {
		return errors.New("no records")
	}

	pages := make([]adapters.Page, 0, col.Len())
	for i, g := range col.Games() {
		if err := col.Select(i); err != nil {
			return err
		}
		pages = append(pages, adapters.Page{
			Title:   fmt.Sprintf("Problem %d  [%s]", i+1, g.ID.String()[:8]),
			Diagram: col.Board().String(),
			Comment: col.Comment(),
		})
	}

	if err := adapters.NewAdapterPDF(cfg.PdfFontSize).WriteFile(pdfOutput, pages); err != nil {
		return fmt.Errorf("write %s: %w", pdfOutput, err)
	}
	logger.Infow("worksheet written", "path", pdfOutput, "pages", len(pages))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d pages)\n", pdfOutput, len(pages))
	return nil
}
