package tasks

import (
	"fmt"
	"sort"

	"tsumego/internal/domain/task"
)

type TaskStore interface {
	ListTasks(root string) ([]task.Task, error)
}

type TaskUseCase struct {
	taskStore TaskStore
	pageLimit int
}

func NewTaskUseCase(taskStore TaskStore, pageLimit int) *TaskUseCase {
	if pageLimit < 1 {
		pageLimit = 20
	}
	return &TaskUseCase{taskStore: taskStore, pageLimit: pageLimit}
}

// GetTasksByLevelByPage lists the problems under root. A negative level
// lists every level; pages start at 1.
func (t *TaskUseCase) GetTasksByLevelByPage(root string, level int, pageNum int) (*task.TaskResponse, error) {
	if pageNum < 1 {
		return nil, fmt.Errorf("invalid page %d", pageNum)
	}

	all, err := t.taskStore.ListTasks(root)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	var tasks []task.Task
	for _, tk := range all {
		if level < 0 || tk.TaskLevel == level {
			tasks = append(tasks, tk)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].TaskLevel != tasks[j].TaskLevel {
			return tasks[i].TaskLevel < tasks[j].TaskLevel
		}
		return tasks[i].TaskUniqNumber < tasks[j].TaskUniqNumber
	})

	totalPages := (len(tasks) + t.pageLimit - 1) / t.pageLimit
	start := (pageNum - 1) * t.pageLimit
	end := start + t.pageLimit
	if start > len(tasks) {
		start = len(tasks)
	}
	if end > len(tasks) {
		end = len(tasks)
	}

	return &task.TaskResponse{
		PageNum:    pageNum,
		TotalPages: totalPages,
		TotalTasks: len(tasks),
		Tasks:      tasks[start:end],
	}, nil
}

// Paths returns the files of every problem at level, in listing order.
func (t *TaskUseCase) Paths(root string, level int) ([]string, error) {
	var paths []string
	for page := 1; ; page++ {
		resp, err := t.GetTasksByLevelByPage(root, level, page)
		if err != nil {
			return nil, err
		}
		for _, tk := range resp.Tasks {
			paths = append(paths, tk.TaskPath)
		}
		if page >= resp.TotalPages {
			return paths, nil
		}
	}
}
