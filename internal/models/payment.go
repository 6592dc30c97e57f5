package models

import "time"

// Payment is a manually-reviewed screenshot submission. It never grants
// access by itself; access flows through transactions only.
type Payment struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone"`
	Institution   *string   `json:"institution,omitempty"`
	Package       *string   `json:"package,omitempty"`
	ScreenshotURL string    `json:"screenshot_url"`
	CreatedAt     time.Time `json:"created_at"`
}
