package models

type UserRole string

const (
	UserRoleDeveloper UserRole = "developer"
	UserRoleClient    UserRole = "client"
)

// Like targets. The like fact table is polymorphic over these.
const (
	LikeTargetProject = "project"
	LikeTargetPost    = "post"
)

// Testimonial moderation states.
const (
	TestimonialStatusPending  = "pending"
	TestimonialStatusApproved = "approved"
	TestimonialStatusRejected = "rejected"
)

// Service request lifecycle: pending -> accepted|declined, accepted -> completed.
const (
	RequestStatusPending   = "pending"
	RequestStatusAccepted  = "accepted"
	RequestStatusDeclined  = "declined"
	RequestStatusCompleted = "completed"
)

// Notification types.
const (
	NotificationNewFollower    = "new_follower"
	NotificationNewLike        = "new_like"
	NotificationNewEndorsement = "new_endorsement"
	NotificationNewTestimonial = "new_testimonial"
	NotificationNewRequest     = "new_request"
	NotificationRequestUpdate  = "request_update"
)
