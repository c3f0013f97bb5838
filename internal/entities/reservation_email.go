package entities

// ReservationEmailData is the fixed parameter set handed to the SendGrid
// dynamic templates (confirmation and status update).
type ReservationEmailData struct {
	UserName     string
	Reference    string
	SlotStart    string
	SlotEnd      string
	Status       string
	StatusReason string
}
