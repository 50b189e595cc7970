package views

import "strings"

type JoinForm struct {
	Code string `json:"code" validate:"required"`
}

type SubmissionForm struct {
	Text     string   `json:"text" validate:"required"`
	FileURLs []string `json:"file_urls" validate:"omitempty,dive,url"`
}

type FeedbackForm struct {
	Rating      int    `json:"rating" validate:"min=1,max=5"`
	Content     string `json:"content" validate:"max=5000"`
	Suggestions string `json:"suggestions" validate:"max=5000"`
}

type MentorshipForm struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
}

func (f *JoinForm) normalize() {
	f.Code = strings.TrimSpace(f.Code)
}

func (f *MentorshipForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
}
