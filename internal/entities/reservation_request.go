package entities

type ReservationRequest struct {
	SlotID          int    `json:"slot_id" validate:"required"`
	UserName        string `json:"user_name" validate:"required"`
	UserEmail       string `json:"user_email" validate:"required,email"`
	UserPhone       string `json:"user_phone"`
	Notes           string `json:"notes"`
	ChallengeID     string `json:"challenge_id" validate:"required"`
	ChallengeAnswer string `json:"challenge_answer" validate:"required"`
}
