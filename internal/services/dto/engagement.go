package dto

// ToggleResponse reports the definite state after a toggle call, even when
// the call lost a benign race.
type ToggleResponse struct {
	State string `json:"state"` // "on" or "off"
}

const (
	ToggleStateOn  = "on"
	ToggleStateOff = "off"
)

func NewToggleResponse(on bool) *ToggleResponse {
	if on {
		return &ToggleResponse{State: ToggleStateOn}
	}
	return &ToggleResponse{State: ToggleStateOff}
}

type EndorseRequest struct {
	Skill string `json:"skill" validate:"required,min=1,max=64"`
}

type EndorsementRow struct {
	EndorserID string `json:"endorser_id"`
	Skill      string `json:"skill"`
}
