package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"project-echo/internal/model"
	"project-echo/internal/repository"
)

// ProjectService provides helpers around projects.
type ProjectService struct {
	repo *repository.ProjectRepository
}

func NewProjectService(repo *repository.ProjectRepository) *ProjectService {
	return &ProjectService{repo: repo}
}

// Create adds an active project. Names are unique.
func (s *ProjectService) Create(ctx context.Context, name, chargingCode string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("project name is required")
	}
	project := model.Project{
		Name:         name,
		IsActive:     true,
		ChargingCode: optionalString(chargingCode),
	}
	if err := s.repo.Create(ctx, &project); err != nil {
		return nil, duplicate(err)
	}
	return &project, nil
}

func (s *ProjectService) Update(ctx context.Context, id uint, name string, isActive bool, chargingCode string) (*model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("project name is required")
	}
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	project.Name = name
	project.IsActive = isActive
	project.ChargingCode = optionalString(chargingCode)
	if err := s.repo.Save(ctx, project); err != nil {
		return nil, duplicate(err)
	}
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*model.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("project", id, err)
	}
	return project, nil
}

func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	return s.repo.List(ctx)
}

// ActiveNames feeds the project pickers of the entry and todo forms.
func (s *ProjectService) ActiveNames(ctx context.Context) ([]string, error) {
	return s.repo.ActiveNames(ctx)
}

func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateProject
	}
	return err
}
