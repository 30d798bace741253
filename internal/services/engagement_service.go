package services

import (
	"context"

	"devlink_backend/internal/models"
	"devlink_backend/internal/repositories"
	"devlink_backend/internal/services/dto"
	"devlink_backend/pkg/apperrors"
)

// EngagementService validates toggle requests and hands them to the fact
// tables. The same endpoint flips both directions; the response always
// carries the definite resulting state.
type EngagementService interface {
	ToggleFollow(ctx context.Context, actorID, targetID string) (*dto.ToggleResponse, error)
	ToggleLike(ctx context.Context, actorID, targetType, targetID string) (*dto.ToggleResponse, error)
	ToggleEndorsement(ctx context.Context, actorID, developerID, skill string) (*dto.ToggleResponse, error)

	IsFollowing(actorID, targetID string) (bool, error)
	ListEndorsements(developerID string) ([]dto.EndorsementRow, error)
}

type EngagementServiceImpl struct {
	engagementRepo      repositories.EngagementRepository
	userRepo            repositories.UserRepository
	projectRepo         repositories.ProjectRepository
	postRepo            repositories.PostRepository
	notificationService NotificationService
}

func NewEngagementService(
	engagementRepo repositories.EngagementRepository,
	userRepo repositories.UserRepository,
	projectRepo repositories.ProjectRepository,
	postRepo repositories.PostRepository,
	notificationService NotificationService,
) EngagementService {
	return &EngagementServiceImpl{
		engagementRepo:      engagementRepo,
		userRepo:            userRepo,
		projectRepo:         projectRepo,
		postRepo:            postRepo,
		notificationService: notificationService,
	}
}

func (s *EngagementServiceImpl) ToggleFollow(ctx context.Context, actorID, targetID string) (*dto.ToggleResponse, error) {
	if targetID == "" {
		return nil, apperrors.NewBadRequestError("Target user id is required")
	}
	if actorID == targetID {
		return nil, apperrors.ErrSelfTarget
	}

	actor, err := s.findActor(actorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindByID(targetID); err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	result, err := s.engagementRepo.ToggleFollow(actorID, targetID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Only the request that created the fact notifies: the race loser and
	// every replay stay silent.
	if result.Inserted {
		s.notificationService.Dispatch(targetID, models.NotificationNewFollower,
			"New follower",
			displayName(actor)+" started following you",
			map[string]interface{}{"actor_id": actorID})
	}

	return dto.NewToggleResponse(result.On), nil
}

func (s *EngagementServiceImpl) ToggleLike(ctx context.Context, actorID, targetType, targetID string) (*dto.ToggleResponse, error) {
	if targetID == "" {
		return nil, apperrors.NewBadRequestError("Target id is required")
	}

	var ownerID string
	switch targetType {
	case models.LikeTargetProject:
		project, err := s.projectRepo.FindByID(targetID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrProjectNotFound) {
				return nil, apperrors.ErrNotFound(err)
			}
			return nil, apperrors.InternalError(err)
		}
		ownerID = project.UserID
	case models.LikeTargetPost:
		post, err := s.postRepo.FindByID(targetID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrPostNotFound) {
				return nil, apperrors.ErrNotFound(err)
			}
			return nil, apperrors.InternalError(err)
		}
		if !post.Published {
			return nil, apperrors.ErrNotFound(repositories.ErrPostNotFound)
		}
		ownerID = post.UserID
	default:
		return nil, apperrors.NewBadRequestError("Unknown like target type")
	}

	if ownerID == actorID {
		return nil, apperrors.ErrSelfTarget
	}

	actor, err := s.findActor(actorID)
	if err != nil {
		return nil, err
	}

	result, err := s.engagementRepo.ToggleLike(actorID, targetType, targetID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if result.Inserted {
		s.notificationService.Dispatch(ownerID, models.NotificationNewLike,
			"New like",
			displayName(actor)+" liked your "+targetType,
			map[string]interface{}{"actor_id": actorID, "target_type": targetType, "target_id": targetID})
	}

	return dto.NewToggleResponse(result.On), nil
}

func (s *EngagementServiceImpl) ToggleEndorsement(ctx context.Context, actorID, developerID, skill string) (*dto.ToggleResponse, error) {
	if developerID == "" {
		return nil, apperrors.NewBadRequestError("Developer id is required")
	}
	if skill == "" {
		return nil, apperrors.NewBadRequestError("Skill is required")
	}
	if actorID == developerID {
		return nil, apperrors.ErrSelfTarget
	}

	developer, err := s.userRepo.FindByID(developerID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if developer.Role != models.UserRoleDeveloper {
		return nil, apperrors.ErrInvalidOperation("engagement", "Endorsements can only be given to developers")
	}
	// Endorsements bind to a declared skill; free-text skills would make
	// the endorsement count meaningless.
	if !developer.HasSkill(skill) {
		return nil, apperrors.ErrUnknownSkill
	}

	actor, err := s.findActor(actorID)
	if err != nil {
		return nil, err
	}

	result, err := s.engagementRepo.ToggleEndorsement(actorID, developerID, skill)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if result.Inserted {
		s.notificationService.Dispatch(developerID, models.NotificationNewEndorsement,
			"New endorsement",
			displayName(actor)+" endorsed you for "+skill,
			map[string]interface{}{"actor_id": actorID, "skill": skill})
	}

	return dto.NewToggleResponse(result.On), nil
}

func (s *EngagementServiceImpl) IsFollowing(actorID, targetID string) (bool, error) {
	on, err := s.engagementRepo.IsFollowing(actorID, targetID)
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	return on, nil
}

func (s *EngagementServiceImpl) ListEndorsements(developerID string) ([]dto.EndorsementRow, error) {
	endorsements, err := s.engagementRepo.ListEndorsements(developerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	rows := make([]dto.EndorsementRow, 0, len(endorsements))
	for _, e := range endorsements {
		rows = append(rows, dto.EndorsementRow{EndorserID: e.EndorserID, Skill: e.Skill})
	}
	return rows, nil
}

// findActor resolves the authenticated caller. A valid token whose account
// row no longer exists is a stale session, not a server fault.
func (s *EngagementServiceImpl) findActor(actorID string) (*models.User, error) {
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	return actor, nil
}

// displayName prefers the profile name, then the handle, then the email.
func displayName(user *models.User) string {
	if user.Name != "" {
		return user.Name
	}
	if h := user.Handle(); h != "" {
		return h
	}
	return user.Email
}
