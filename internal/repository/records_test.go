package repository

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"tsumego/internal/bootstrap"
)

func newStorage(t *testing.T, cfg *bootstrap.Config) *RecordStorage {
	t.Helper()
	r := NewRecordStorage(cfg, zap.NewNop().Sugar())
	r.now = func() time.Time {
		return time.Date(2024, time.March, 5, 9, 7, 3, 0, time.UTC)
	}
	return r
}

func TestReadRecord(t *testing.T) {
	dir := t.TempDir()
	r := newStorage(t, &bootstrap.Config{})

	plain := filepath.Join(dir, "plain.sgf")
	require.NoError(t, os.WriteFile(plain, []byte("\xEF\xBB\xBF(;C[hi])"), 0o644))
	data, err := r.ReadRecord(plain)
	require.NoError(t, err)
	assert.Equal(t, "(;C[hi])", string(data))

	// "(;C[碁])" in Shift_JIS
	sjis := filepath.Join(dir, "sjis.sgf")
	require.NoError(t, os.WriteFile(sjis, []byte("(;C[\x8c\xe9])"), 0o644))
	data, err = r.ReadRecord(sjis)
	require.NoError(t, err)
	assert.Equal(t, "(;C[碁])", string(data))

	_, err = r.ReadRecord(filepath.Join(dir, "missing.sgf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveRecord(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "answers")
	r := newStorage(t, &bootstrap.Config{SaveDir: dir})

	path, err := r.SaveRecord([]byte("(;GM[1])"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2024-3-5_090703.sgf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "(;GM[1])", string(data))

	second, err := r.SaveRecord([]byte("(;GM[1]C[again])"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2024-3-5_090703-1.sgf"), second)
}

func TestAppendWrong(t *testing.T) {
	r := newStorage(t, &bootstrap.Config{})
	require.NoError(t, r.AppendWrong(uuid.New(), "(;B[aa])"))

	logPath := filepath.Join(t.TempDir(), "wrong.log")
	r = newStorage(t, &bootstrap.Config{WrongLog: logPath})
	id := uuid.New()
	require.NoError(t, r.AppendWrong(id, "(;B[aa]\n;W[bb])"))
	require.NoError(t, r.AppendWrong(id, "(;B[cc])"))

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2024-03-05T09:07:03Z\t"+id.String()+"\t(;B[aa] ;W[bb])", lines[0])
}

func TestListTasks(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"Chapter 1/1.sgf",
		"Chapter 1/2.sgf",
		"Chapter 2/sub/10.SGF",
		"Chapter 2/extra.sgf",
		"misc/notes.txt",
	}
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("(;)"), 0o644))
	}

	r := newStorage(t, &bootstrap.Config{})
	tasks, err := r.ListTasks(root)
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	byPath := make(map[string][2]int)
	for _, tk := range tasks {
		rel, err := filepath.Rel(root, tk.TaskPath)
		require.NoError(t, err)
		byPath[filepath.ToSlash(rel)] = [2]int{tk.TaskUniqNumber, tk.TaskLevel}
	}
	assert.Equal(t, [2]int{1, 1}, byPath["Chapter 1/1.sgf"])
	assert.Equal(t, [2]int{2, 1}, byPath["Chapter 1/2.sgf"])
	assert.Equal(t, [2]int{10, 2}, byPath["Chapter 2/sub/10.SGF"])
	assert.Equal(t, [2]int{11, 2}, byPath["Chapter 2/extra.sgf"])

	_, err = r.ListTasks(filepath.Join(root, "nope"))
	assert.Error(t, err)
}

func TestExtractChapterIndex(t *testing.T) {
	tests := []struct {
		path  string
		level int
		ok    bool
	}{
		{"books/Chapter 3/12.sgf", 3, true},
		{"books/chapter 4/a/b.sgf", 4, true},
		{"Chapter 1/Chapter 2/x.sgf", 2, true},
		{"books/Chapter3/1.sgf", 0, false},
		{"1.sgf", 0, false},
	}

	for _, tt := range tests {
		level, ok := ExtractChapterIndex(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.level, level, tt.path)
	}
}
