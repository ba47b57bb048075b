package repository

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"tsumego/internal/bootstrap"
	"tsumego/internal/domain/task"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RecordStorage keeps records as flat files: reading with charset
// detection, timestamped saves, an append-only log of wrong answers and
// problem directory listings.
type RecordStorage struct {
	cfg *bootstrap.Config
	log *zap.SugaredLogger
	now func() time.Time
}

func NewRecordStorage(cfg *bootstrap.Config, log *zap.SugaredLogger) *RecordStorage {
	return &RecordStorage{
		cfg: cfg,
		log: log,
		now: time.Now,
	}
}

// ReadRecord returns the file as UTF-8. Files that are not valid UTF-8
// are taken to be Shift_JIS.
func (r *RecordStorage) ReadRecord(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return data, nil
	}

	decoded, _, err := transform.Bytes(japanese.ShiftJIS.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	r.log.Debugw("record decoded as Shift_JIS", "path", path)
	return decoded, nil
}

// SaveRecord writes data to a new file named after the current time in
// the save directory and returns its path.
func (r *RecordStorage) SaveRecord(data []byte) (string, error) {
	if err := os.MkdirAll(r.cfg.SaveDir, 0o755); err != nil {
		return "", fmt.Errorf("create save dir: %w", err)
	}

	stamp := r.now().Format("2006-1-2_150405")
	path := filepath.Join(r.cfg.SaveDir, stamp+".sgf")
	for i := 1; fileExists(path); i++ {
		path = filepath.Join(r.cfg.SaveDir, fmt.Sprintf("%s-%d.sgf", stamp, i))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	r.log.Infow("record written", "path", path, "bytes", len(data))
	return path, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// AppendWrong logs a wrongly answered record, one tab separated line per
// entry. It does nothing when no log file is configured.
func (r *RecordStorage) AppendWrong(id uuid.UUID, record string) error {
	if r.cfg.WrongLog == "" {
		return nil
	}

	f, err := os.OpenFile(r.cfg.WrongLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open wrong log: %w", err)
	}
	defer f.Close()

	record = strings.NewReplacer("\r", "", "\n", " ").Replace(record)
	_, err = fmt.Fprintf(f, "%s\t%s\t%s\n", r.now().Format(time.RFC3339), id, record)
	return err
}

// ListTasks walks root for .sgf files. A file named by a number keeps that
// number, the others are numbered in walk order after the highest one.
func (r *RecordStorage) ListTasks(root string) ([]task.Task, error) {
	var (
		tasks   []task.Task
		unnamed []int
		maxNum  int
	)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !strings.EqualFold(filepath.Ext(info.Name()), ".sgf") {
			return nil
		}

		level, _ := ExtractChapterIndex(path)
		tk := task.Task{TaskLevel: level, TaskPath: path}

		name := strings.TrimSuffix(info.Name(), filepath.Ext(info.Name()))
		if n, err := strconv.Atoi(name); err == nil {
			tk.TaskUniqNumber = n
			maxNum = max(maxNum, n)
		} else {
			unnamed = append(unnamed, len(tasks))
		}

		tasks = append(tasks, tk)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	for _, i := range unnamed {
		maxNum++
		tasks[i].TaskUniqNumber = maxNum
	}

	r.log.Debugw("tasks listed", "root", root, "count", len(tasks))
	return tasks, nil
}

var chapterRe = regexp.MustCompile(`(?i)^Chapter (\d+)$`)

// ExtractChapterIndex finds the level of a problem: the number of the
// nearest enclosing "Chapter N" directory.
func ExtractChapterIndex(pathToTask string) (int, bool) {
	dirs := strings.Split(filepath.ToSlash(filepath.Dir(pathToTask)), "/")

	for i := len(dirs) - 1; i >= 0; i-- {
		if match := chapterRe.FindStringSubmatch(dirs[i]); len(match) == 2 {
			indexNum, err := strconv.Atoi(match[1])
			if err != nil {
				return 0, false
			}
			return indexNum, true
		}
	}
	return 0, false
}
