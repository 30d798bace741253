package repositories

import (
	"errors"

	"devlink_backend/internal/models"

	"gorm.io/gorm"
)

// errDuplicateFact aborts a toggle transaction when a concurrent duplicate
// request inserted the fact first. The caller reports state=on: the loser of
// the race must neither error nor double-increment the counter.
var errDuplicateFact = errors.New("fact inserted concurrently")

// ToggleResult is the outcome of one toggle call.
type ToggleResult struct {
	// On is the state after the call.
	On bool
	// Inserted is true only when this call created the fact row. The race
	// loser gets On=true, Inserted=false, so notifications fire exactly
	// once per 0->1 transition.
	Inserted bool
}

// EngagementRepository implements the toggle state machine for the three
// fact tables. Fact mutation and counter mutation run in one transaction so
// the denormalized counter can never drift from the fact count.
type EngagementRepository interface {
	ToggleFollow(followerID, followingID string) (ToggleResult, error)
	ToggleLike(userID, targetType, targetID string) (ToggleResult, error)
	ToggleEndorsement(endorserID, developerID, skill string) (ToggleResult, error)

	IsFollowing(followerID, followingID string) (bool, error)
	CountFollowers(userID string) (int64, error)
	CountLikes(targetType, targetID string) (int64, error)
	CountEndorsements(developerID string) (int64, error)
	ListEndorsements(developerID string) ([]models.Endorsement, error)
}

type EngagementRepositoryImpl struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &EngagementRepositoryImpl{db: db}
}

func (r *EngagementRepositoryImpl) ToggleFollow(followerID, followingID string) (ToggleResult, error) {
	return r.toggle(
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("follower_id = ? AND following_id = ?", followerID, followingID)
		},
		&models.Follow{FollowerID: followerID, FollowingID: followingID},
		counterRef{model: &models.User{}, id: followingID, column: "followers_count"},
	)
}

func (r *EngagementRepositoryImpl) ToggleLike(userID, targetType, targetID string) (ToggleResult, error) {
	counter := counterRef{id: targetID, column: "likes_count"}
	switch targetType {
	case models.LikeTargetProject:
		counter.model = &models.Project{}
	case models.LikeTargetPost:
		counter.model = &models.Post{}
	default:
		return ToggleResult{}, errors.New("unknown like target type: " + targetType)
	}

	return r.toggle(
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID)
		},
		&models.Like{UserID: userID, TargetType: targetType, TargetID: targetID},
		counter,
	)
}

func (r *EngagementRepositoryImpl) ToggleEndorsement(endorserID, developerID, skill string) (ToggleResult, error) {
	return r.toggle(
		func(tx *gorm.DB) *gorm.DB {
			return tx.Where("endorser_id = ? AND developer_id = ? AND skill = ?", endorserID, developerID, skill)
		},
		&models.Endorsement{EndorserID: endorserID, DeveloperID: developerID, Skill: skill},
		counterRef{model: &models.User{}, id: developerID, column: "endorsements_count"},
	)
}

type counterRef struct {
	model  interface{}
	id     string
	column string
}

// toggle runs the shared state machine: {absent, present}, both directions
// through the same call, resolved entirely within one transaction.
func (r *EngagementRepositoryImpl) toggle(scope func(*gorm.DB) *gorm.DB, fact interface{}, counter counterRef) (ToggleResult, error) {
	var result ToggleResult

	err := r.db.Transaction(func(tx *gorm.DB) error {
		existing := newFactLike(fact)
		err := scope(tx).First(existing).Error

		switch {
		case err == nil:
			// Present: delete and decrement. A zero-row delete means a
			// concurrent request already removed it; skip the decrement.
			res := tx.Delete(existing)
			if res.Error != nil {
				return res.Error
			}
			result.On = false
			if res.RowsAffected == 0 {
				return nil
			}
			// Floor at zero: the WHERE clause keeps replays from driving
			// the counter negative.
			return tx.Model(counter.model).
				Where("id = ? AND "+counter.column+" > 0", counter.id).
				UpdateColumn(counter.column, gorm.Expr(counter.column+" - 1")).Error

		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(fact).Error; err != nil {
				if isDuplicateKey(err) {
					// Benign race: the winner already created the fact and
					// bumped the counter. Roll back and report on.
					result.On = true
					return errDuplicateFact
				}
				return err
			}
			result.On = true
			result.Inserted = true
			return tx.Model(counter.model).
				Where("id = ?", counter.id).
				UpdateColumn(counter.column, gorm.Expr(counter.column+" + 1")).Error

		default:
			return err
		}
	})

	if errors.Is(err, errDuplicateFact) {
		return result, nil
	}
	if err != nil {
		return ToggleResult{}, err
	}
	return result, nil
}

// newFactLike returns a fresh zero value of the fact's type for the lookup,
// so the delete targets the found row (with its primary key) and not the
// unsaved template.
func newFactLike(fact interface{}) interface{} {
	switch fact.(type) {
	case *models.Follow:
		return &models.Follow{}
	case *models.Like:
		return &models.Like{}
	case *models.Endorsement:
		return &models.Endorsement{}
	}
	return nil
}

func (r *EngagementRepositoryImpl) IsFollowing(followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

func (r *EngagementRepositoryImpl) CountFollowers(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *EngagementRepositoryImpl) CountLikes(targetType, targetID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	return count, err
}

func (r *EngagementRepositoryImpl) CountEndorsements(developerID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Endorsement{}).Where("developer_id = ?", developerID).Count(&count).Error
	return count, err
}

func (r *EngagementRepositoryImpl) ListEndorsements(developerID string) ([]models.Endorsement, error) {
	var endorsements []models.Endorsement
	err := r.db.Where("developer_id = ?", developerID).
		Order("created_at DESC").
		Find(&endorsements).Error
	return endorsements, err
}
