package task

// Task is one problem file of a collection directory.
type Task struct {
	TaskUniqNumber int    `json:"task_number"`
	TaskLevel      int    `json:"task_level"`
	TaskPath       string `json:"task_path"`
}

// TaskResponse is one page of a problem listing.
type TaskResponse struct {
	PageNum    int    `json:"page_tmp"`
	TotalPages int    `json:"total_pages"`
	TotalTasks int    `json:"total_tasks"`
	Tasks      []Task `json:"tasks"`
}
