package validator

import (
	"log"

	"devlink_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules installs the project-specific validation tags.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-like-target", validateLikeTarget)
	mustRegister("is-testimonial-status", validateTestimonialStatus)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' covers empties
	}
	switch models.UserRole(value) {
	case models.UserRoleDeveloper, models.UserRoleClient:
		return true
	default:
		return false
	}
}

func validateLikeTarget(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch value {
	case models.LikeTargetProject, models.LikeTargetPost:
		return true
	default:
		return false
	}
}

func validateTestimonialStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch value {
	case models.TestimonialStatusPending, models.TestimonialStatusApproved, models.TestimonialStatusRejected:
		return true
	default:
		return false
	}
}
