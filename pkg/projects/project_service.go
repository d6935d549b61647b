package projects

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/collabhub-app/collabhub-client/pkg/communication"
	"github.com/collabhub-app/collabhub-client/pkg/logger"
	"github.com/collabhub-app/collabhub-client/pkg/optimistic"
)

const cacheKeyProjects = "projects"

// CreateRequest is validated client-side before any network call
type CreateRequest struct {
	Name        string    `json:"name" validate:"required"`
	Description string    `json:"description,omitempty"`
	Department  string    `json:"department" validate:"required"`
	StartDate   time.Time `json:"startDate" validate:"required"`
	EndDate     time.Time `json:"endDate,omitempty"`
}

// UpdateRequest carries the mutable project fields; empty values are omitted
type UpdateRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Department  string `json:"department,omitempty"`
}

// ProjectService owns the project list and its optimistic mutations
type ProjectService struct {
	Client     *communication.Client
	Controller *optimistic.Controller[Project]
	Cache      *communication.ListCache
	Logger     logger.Interface
}

// NewProjectService constructs a ProjectService
func NewProjectService(client *communication.Client, cache *communication.ListCache, logging logger.Interface) *ProjectService {
	return &ProjectService{
		Client:     client,
		Controller: optimistic.NewController[Project](logging),
		Cache:      cache,
		Logger:     logging,
	}
}

type projectListWire struct {
	Projects []projectWire `json:"projects"`
}

type projectItemWire struct {
	Project projectWire `json:"project"`
}

// List fetches projects and reconciles the collection. When the fetch fails
// and a previous result is cached, the cached list is served instead.
func (s *ProjectService) List(ctx context.Context) ([]Project, error) {
	data := projectListWire{}
	err := s.Client.Get(ctx, "/projects", &data)
	if err != nil {
		cached, cacheErr := s.Cache.Get(cacheKeyProjects)
		if cacheErr == nil {
			s.Logger.Warning(fmt.Sprintf("project fetch failed, serving cached list: %v", err))
			return cached.([]Project), nil
		}
		return nil, err
	}

	projects := make([]Project, 0, len(data.Projects))
	ids := make([]string, 0, len(data.Projects))
	for _, wire := range data.Projects {
		project := normalizeProject(wire)
		projects = append(projects, project)
		ids = append(ids, project.ID)
	}

	s.Controller.Collection.ReplaceAll(ids, projects)
	s.Cache.Put(cacheKeyProjects, projects)
	return projects, nil
}

// Get fetches a single project with its members
func (s *ProjectService) Get(ctx context.Context, id string) (Project, error) {
	data := projectItemWire{}
	err := s.Client.Get(ctx, "/projects/"+id, &data)
	if err != nil {
		return Project{}, err
	}
	return normalizeProject(data.Project), nil
}

// Create adds the project optimistically and reconciles with the server
func (s *ProjectService) Create(ctx context.Context, request CreateRequest) (Project, error) {
	err := validator.New().Struct(&request)
	if err != nil {
		return Project{}, err
	}

	localID := optimistic.NewLocalID()
	provisional := Project{
		ID:          localID,
		Name:        request.Name,
		Description: request.Description,
		Status:      StatusPlanning,
		Department:  request.Department,
		StartDate:   request.StartDate,
		EndDate:     request.EndDate,
	}

	return s.Controller.Create(ctx, localID, provisional, func(ctx context.Context) (string, Project, error) {
		data := projectItemWire{}
		err := s.Client.Post(ctx, "/projects", &request, &data)
		if err != nil {
			return "", Project{}, err
		}

		project := normalizeProject(data.Project)
		return project.ID, project, nil
	})
}

// Update applies the changes optimistically and reconciles with the server
func (s *ProjectService) Update(ctx context.Context, id string, request UpdateRequest) error {
	return s.Controller.Update(ctx, id, func(project Project) Project {
		if request.Name != "" {
			project.Name = request.Name
		}
		if request.Description != "" {
			project.Description = request.Description
		}
		if request.Status != "" {
			project.Status = request.Status
		}
		if request.Department != "" {
			project.Department = request.Department
		}
		return project
	}, func(ctx context.Context) error {
		return s.Client.Put(ctx, "/projects/"+id, &request, nil)
	})
}

// Delete removes the project optimistically
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return s.Controller.Delete(ctx, id, func(ctx context.Context) error {
		return s.Client.Delete(ctx, "/projects/"+id)
	})
}

// AddMember attaches a user to the project
func (s *ProjectService) AddMember(ctx context.Context, projectID string, userID string, role string) error {
	body := struct {
		UserID string `json:"userId"`
		Role   string `json:"role,omitempty"`
	}{UserID: userID, Role: role}

	return s.Client.Post(ctx, "/projects/"+projectID+"/members", &body, nil)
}

// RemoveMember detaches a user from the project
func (s *ProjectService) RemoveMember(ctx context.Context, projectID string, userID string) error {
	return s.Client.Delete(ctx, "/projects/"+projectID+"/members/"+userID)
}
