package entities

type CalendarLinks struct {
	Google  string `json:"google"`
	Outlook string `json:"outlook"`
}
