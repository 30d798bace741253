package services

import (
	"devlink_backend/internal/models"
	"devlink_backend/internal/repositories"
	"devlink_backend/internal/services/dto"
	"devlink_backend/pkg/apperrors"
)

type PostService interface {
	Create(userID string, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	// Get hides drafts from everyone but their author.
	Get(id, viewerID string) (*dto.PostResponse, error)
	Update(userID, id string, req *dto.UpdatePostRequest) (*dto.PostResponse, error)
	Delete(userID, id string, isAdmin bool) error
	ListForUser(userID, viewerID string, limit, offset int) (*dto.Paginated, error)
	Feed(limit, offset int) (*dto.Paginated, error)

	AddPostComment(authorID, postID string, req *dto.CommentRequest) (*dto.CommentResponse, error)
	AddProjectComment(authorID, projectID string, req *dto.CommentRequest) (*dto.CommentResponse, error)
	ListPostComments(postID string) ([]dto.CommentResponse, error)
	ListProjectComments(projectID string) ([]dto.CommentResponse, error)
	DeleteComment(actorID, commentID string, isAdmin bool) error
}

type PostServiceImpl struct {
	postRepo    repositories.PostRepository
	projectRepo repositories.ProjectRepository
}

func NewPostService(postRepo repositories.PostRepository, projectRepo repositories.ProjectRepository) PostService {
	return &PostServiceImpl{postRepo: postRepo, projectRepo: projectRepo}
}

func (s *PostServiceImpl) Create(userID string, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	post := &models.Post{
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return postResponseFromModel(post), nil
}

func (s *PostServiceImpl) Get(id, viewerID string) (*dto.PostResponse, error) {
	post, err := s.findPost(id)
	if err != nil {
		return nil, err
	}
	if !post.Published && post.UserID != viewerID {
		return nil, apperrors.ErrNotFound(repositories.ErrPostNotFound)
	}
	return postResponseFromModel(post), nil
}

func (s *PostServiceImpl) Update(userID, id string, req *dto.UpdatePostRequest) (*dto.PostResponse, error) {
	post, err := s.findPost(id)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, apperrors.ErrInsufficientPermissions
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.Published != nil {
		post.Published = *req.Published
	}

	if err := s.postRepo.Update(post); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return postResponseFromModel(post), nil
}

func (s *PostServiceImpl) Delete(userID, id string, isAdmin bool) error {
	post, err := s.findPost(id)
	if err != nil {
		return err
	}
	if post.UserID != userID && !isAdmin {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.postRepo.Delete(id); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *PostServiceImpl) ListForUser(userID, viewerID string, limit, offset int) (*dto.Paginated, error) {
	includeDrafts := userID == viewerID
	posts, total, err := s.postRepo.ListForUser(userID, includeDrafts, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return paginatedPosts(posts, total, limit, offset), nil
}

func (s *PostServiceImpl) Feed(limit, offset int) (*dto.Paginated, error) {
	posts, total, err := s.postRepo.ListPublished(limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return paginatedPosts(posts, total, limit, offset), nil
}

func (s *PostServiceImpl) AddPostComment(authorID, postID string, req *dto.CommentRequest) (*dto.CommentResponse, error) {
	post, err := s.findPost(postID)
	if err != nil {
		return nil, err
	}
	if !post.Published && post.UserID != authorID {
		return nil, apperrors.ErrNotFound(repositories.ErrPostNotFound)
	}

	comment := &models.Comment{
		AuthorID: authorID,
		PostID:   &post.ID,
		Body:     req.Body,
	}
	if err := s.postRepo.CreateComment(comment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return commentResponseFromModel(comment), nil
}

func (s *PostServiceImpl) AddProjectComment(authorID, projectID string, req *dto.CommentRequest) (*dto.CommentResponse, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrProjectNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	comment := &models.Comment{
		AuthorID:  authorID,
		ProjectID: &project.ID,
		Body:      req.Body,
	}
	if err := s.postRepo.CreateComment(comment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return commentResponseFromModel(comment), nil
}

func (s *PostServiceImpl) ListPostComments(postID string) ([]dto.CommentResponse, error) {
	comments, err := s.postRepo.ListCommentsForPost(postID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return commentResponses(comments), nil
}

func (s *PostServiceImpl) ListProjectComments(projectID string) ([]dto.CommentResponse, error) {
	comments, err := s.postRepo.ListCommentsForProject(projectID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return commentResponses(comments), nil
}

func (s *PostServiceImpl) DeleteComment(actorID, commentID string, isAdmin bool) error {
	comment, err := s.postRepo.FindCommentByID(commentID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCommentNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if comment.AuthorID != actorID && !isAdmin {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.postRepo.DeleteComment(commentID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *PostServiceImpl) findPost(id string) (*models.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		if apperrors.Is(err, repositories.ErrPostNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return post, nil
}

func paginatedPosts(posts []models.Post, total int64, limit, offset int) *dto.Paginated {
	items := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		items = append(items, *postResponseFromModel(&posts[i]))
	}
	return &dto.Paginated{Items: items, Total: total, Page: offset/max(limit, 1) + 1, PageSize: limit}
}

func postResponseFromModel(post *models.Post) *dto.PostResponse {
	return &dto.PostResponse{
		ID:         post.ID,
		UserID:     post.UserID,
		Title:      post.Title,
		Content:    post.Content,
		Published:  post.Published,
		LikesCount: post.LikesCount,
		CreatedAt:  post.CreatedAt,
	}
}

func commentResponses(comments []models.Comment) []dto.CommentResponse {
	items := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		items = append(items, *commentResponseFromModel(&comments[i]))
	}
	return items
}

func commentResponseFromModel(comment *models.Comment) *dto.CommentResponse {
	return &dto.CommentResponse{
		ID:        comment.ID,
		AuthorID:  comment.AuthorID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
}
