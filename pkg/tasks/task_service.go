package tasks

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/collabhub-app/collabhub-client/pkg/communication"
	"github.com/collabhub-app/collabhub-client/pkg/logger"
	"github.com/collabhub-app/collabhub-client/pkg/optimistic"
)

const cacheKeyTasks = "tasks"

// Filter narrows a task list request
type Filter struct {
	Status      string
	Urgency     string
	Department  string
	ProjectID   string
	IsCompleted *bool
}

func (f *Filter) query() string {
	values := url.Values{}
	if f.Status != "" {
		values.Set("status", f.Status)
	}
	if f.Urgency != "" {
		values.Set("urgency", f.Urgency)
	}
	if f.Department != "" {
		values.Set("department", f.Department)
	}
	if f.ProjectID != "" {
		values.Set("projectId", f.ProjectID)
	}
	if f.IsCompleted != nil {
		values.Set("isCompleted", strconv.FormatBool(*f.IsCompleted))
	}

	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// CreateRequest is validated client-side before any network call
type CreateRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description,omitempty"`
	Urgency     string    `json:"urgency" validate:"required,oneof=urgent high medium low"`
	Department  string    `json:"department" validate:"required"`
	Deadline    time.Time `json:"deadline" validate:"required"`
	ProjectID   string    `json:"projectId,omitempty"`
	AssigneeID  string    `json:"assigneeId,omitempty"`
}

// UpdateRequest carries the mutable task fields; empty values are omitted
type UpdateRequest struct {
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Urgency     string     `json:"urgency,omitempty"`
	Department  string     `json:"department,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// TaskService owns the active task list and its optimistic mutations
type TaskService struct {
	Client     *communication.Client
	Controller *optimistic.Controller[Task]
	Cache      *communication.ListCache
	Logger     logger.Interface
}

// NewTaskService constructs a TaskService
func NewTaskService(client *communication.Client, cache *communication.ListCache, logging logger.Interface) *TaskService {
	return &TaskService{
		Client:     client,
		Controller: optimistic.NewController[Task](logging),
		Cache:      cache,
		Logger:     logging,
	}
}

type taskListWire struct {
	Tasks []taskWire `json:"tasks"`
}

type taskItemWire struct {
	Task taskWire `json:"task"`
}

// List fetches tasks and reconciles the active collection. When the fetch
// fails and a previous result is cached, the cached list is served instead
// of blocking the view.
func (s *TaskService) List(ctx context.Context, filter Filter) ([]Task, error) {
	data := taskListWire{}
	err := s.Client.Get(ctx, "/tasks"+filter.query(), &data)
	if err != nil {
		cached, cacheErr := s.Cache.Get(cacheKeyTasks)
		if cacheErr == nil {
			s.Logger.Warning(fmt.Sprintf("task fetch failed, serving cached list: %v", err))
			return cached.([]Task), nil
		}
		return nil, err
	}

	tasks := make([]Task, 0, len(data.Tasks))
	ids := make([]string, 0, len(data.Tasks))
	for _, wire := range data.Tasks {
		task := normalizeTask(wire)
		tasks = append(tasks, task)
		ids = append(ids, task.ID)
	}

	s.Controller.Collection.ReplaceAll(ids, tasks)
	s.Cache.Put(cacheKeyTasks, tasks)
	return tasks, nil
}

// Urgent fetches the urgent task shortlist
func (s *TaskService) Urgent(ctx context.Context) ([]Task, error) {
	data := taskListWire{}
	err := s.Client.Get(ctx, "/tasks/urgent", &data)
	if err != nil {
		return nil, err
	}

	tasks := make([]Task, 0, len(data.Tasks))
	for _, wire := range data.Tasks {
		tasks = append(tasks, normalizeTask(wire))
	}
	return tasks, nil
}

// Active returns the current collection, pending entries included
func (s *TaskService) Active() []Task {
	return s.Controller.Collection.Values()
}

// Create adds the task optimistically and reconciles with the server
func (s *TaskService) Create(ctx context.Context, request CreateRequest) (Task, error) {
	err := validator.New().Struct(&request)
	if err != nil {
		return Task{}, err
	}

	localID := optimistic.NewLocalID()
	provisional := Task{
		ID:          localID,
		Title:       request.Title,
		Description: request.Description,
		Urgency:     request.Urgency,
		Status:      StatusPending,
		Department:  request.Department,
		ProjectID:   request.ProjectID,
		AssigneeID:  request.AssigneeID,
		Deadline:    request.Deadline,
	}

	return s.Controller.Create(ctx, localID, provisional, func(ctx context.Context) (string, Task, error) {
		data := taskItemWire{}
		err := s.Client.Post(ctx, "/tasks", &request, &data)
		if err != nil {
			return "", Task{}, err
		}

		task := normalizeTask(data.Task)
		return task.ID, task, nil
	})
}

// Update applies the changes optimistically and reconciles with the server
func (s *TaskService) Update(ctx context.Context, id string, request UpdateRequest) error {
	return s.Controller.Update(ctx, id, func(task Task) Task {
		if request.Title != "" {
			task.Title = request.Title
		}
		if request.Description != "" {
			task.Description = request.Description
		}
		if request.Urgency != "" {
			task.Urgency = request.Urgency
		}
		if request.Department != "" {
			task.Department = request.Department
		}
		if request.Deadline != nil {
			task.Deadline = *request.Deadline
		}
		return task
	}, func(ctx context.Context) error {
		return s.Client.Put(ctx, "/tasks/"+id, &request, nil)
	})
}

// SetStatus moves the task to a new status optimistically
func (s *TaskService) SetStatus(ctx context.Context, id string, status string) error {
	body := struct {
		Status string `json:"status"`
	}{Status: status}

	return s.Controller.Update(ctx, id, func(task Task) Task {
		task.Status = status
		task.IsCompleted = status == StatusCompleted
		return task
	}, func(ctx context.Context) error {
		return s.Client.Patch(ctx, "/tasks/"+id+"/status", &body, nil)
	})
}

// Delete removes the task optimistically
func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.Controller.Delete(ctx, id, func(ctx context.Context) error {
		return s.Client.Delete(ctx, "/tasks/"+id)
	})
}
