package services

import (
	"encoding/json"

	"devlink_backend/internal/models"
	"devlink_backend/internal/repositories"
	"devlink_backend/internal/services/dto"
	"devlink_backend/pkg/apperrors"

	"gorm.io/datatypes"
)

type ProjectService interface {
	Create(userID string, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	Get(id string) (*dto.ProjectResponse, error)
	Update(userID, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	Delete(userID, id string, isAdmin bool) error
	ListForUser(userID string, limit, offset int) (*dto.Paginated, error)
	ListRecent(limit, offset int) (*dto.Paginated, error)
}

type ProjectServiceImpl struct {
	projectRepo repositories.ProjectRepository
}

func NewProjectService(projectRepo repositories.ProjectRepository) ProjectService {
	return &ProjectServiceImpl{projectRepo: projectRepo}
}

func (s *ProjectServiceImpl) Create(userID string, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	project := &models.Project{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		RepoURL:     req.RepoURL,
		LiveURL:     req.LiveURL,
	}

	if len(req.TechStack) > 0 {
		raw, err := json.Marshal(req.TechStack)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		project.TechStack = datatypes.JSON(raw)
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return projectResponseFromModel(project), nil
}

func (s *ProjectServiceImpl) Get(id string) (*dto.ProjectResponse, error) {
	project, err := s.findProject(id)
	if err != nil {
		return nil, err
	}
	return projectResponseFromModel(project), nil
}

func (s *ProjectServiceImpl) Update(userID, id string, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.findProject(id)
	if err != nil {
		return nil, err
	}
	if project.UserID != userID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.RepoURL != nil {
		project.RepoURL = *req.RepoURL
	}
	if req.LiveURL != nil {
		project.LiveURL = *req.LiveURL
	}
	if req.TechStack != nil {
		raw, merr := json.Marshal(*req.TechStack)
		if merr != nil {
			return nil, apperrors.InternalError(merr)
		}
		project.TechStack = datatypes.JSON(raw)
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return projectResponseFromModel(project), nil
}

func (s *ProjectServiceImpl) Delete(userID, id string, isAdmin bool) error {
	project, err := s.findProject(id)
	if err != nil {
		return err
	}
	if project.UserID != userID && !isAdmin {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.projectRepo.Delete(id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *ProjectServiceImpl) ListForUser(userID string, limit, offset int) (*dto.Paginated, error) {
	projects, total, err := s.projectRepo.ListForUser(userID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return paginatedProjects(projects, total, limit, offset), nil
}

func (s *ProjectServiceImpl) ListRecent(limit, offset int) (*dto.Paginated, error) {
	projects, total, err := s.projectRepo.ListRecent(limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return paginatedProjects(projects, total, limit, offset), nil
}

func (s *ProjectServiceImpl) findProject(id string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}

func paginatedProjects(projects []models.Project, total int64, limit, offset int) *dto.Paginated {
	items := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, *projectResponseFromModel(&projects[i]))
	}
	return &dto.Paginated{Items: items, Total: total, Page: offset/max(limit, 1) + 1, PageSize: limit}
}

func projectResponseFromModel(project *models.Project) *dto.ProjectResponse {
	var techStack []string
	if len(project.TechStack) > 0 {
		_ = json.Unmarshal(project.TechStack, &techStack)
	}

	return &dto.ProjectResponse{
		ID:          project.ID,
		UserID:      project.UserID,
		Title:       project.Title,
		Description: project.Description,
		RepoURL:     project.RepoURL,
		LiveURL:     project.LiveURL,
		TechStack:   techStack,
		LikesCount:  project.LikesCount,
	}
}
