package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"tsumego/internal/delivery/cli"
	"tsumego/internal/repository"
	gameUC "tsumego/internal/usecase/game"
	"tsumego/internal/usecase/tasks"
)

var (
	solveDir   string
	solveLevel int
	createSize int
)

var solveCmd = &cobra.Command{
	Use:   "solve [file...]",
	Short: "Solve problems against their recorded answers",
	Long: `Solve loads every record of the given files, and of the problem
directory when --dir is set, and lets you play the side to move. The
opponent answers from the record; leaving the correct lines is reported
and, when WRONG_LOG is set, logged.`,
	RunE: runSolve,
}

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Step through a game record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return play(gameUC.ModeReplay, cfg.DefaultBoardSize, args)
	},
}

var createCmd = &cobra.Command{
	Use:   "create [file...]",
	Short: "Author a problem and its answer tree",
	Long: `Create starts with an empty board. Place the setup stones, switch
to answer mode with "mode answer", record the lines and mark the correct
ones with "correct", then "save". Files given are loaded for editing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return play(gameUC.ModeAnswer, createSize, args)
	},
}

func init() {
	solveCmd.Flags().StringVar(&solveDir, "dir", "", "problem directory")
	solveCmd.Flags().IntVar(&solveLevel, "level", -1, "chapter level to solve, -1 for all")
	createCmd.Flags().IntVar(&createSize, "size", 0, "board size (default DEFAULT_BOARD_SIZE)")
}

func runSolve(cmd *cobra.Command, args []string) error {
	paths := append([]string(nil), args...)
	if solveDir != "" {
		found, err := tasks.NewTaskUseCase(store, cfg.PageLimitTasks).Paths(solveDir, solveLevel)
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return errors.New("no problems given")
	}
	return play(gameUC.ModeSolve, cfg.DefaultBoardSize, paths)
}

func newCollection(s *repository.RecordStorage, size int) *gameUC.Collection {
	if size == 0 {
		size = cfg.DefaultBoardSize
	}
	return gameUC.NewCollection(s, logger, gameUC.Options{
		DefaultSize:     size,
		Shuffle:         cfg.ShuffleSolve,
		RandomTransform: cfg.RandomTransform,
	})
}

func play(mode gameUC.Mode, size int, paths []string) error {
	col := newCollection(store, size)
	h := cli.NewHandler(logger, col, store, os.Stdout, mode)
	col.AddListener(h)

	if len(paths) > 0 {
		if err := col.LoadFiles(mode, paths); err != nil {
			return err
		}
	}

	_ = h.Handle("show")
	return h.Run(os.Stdin)
}
