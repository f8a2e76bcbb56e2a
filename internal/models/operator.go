package models

import "time"

// Operator is a back-office staff account allowed to action requests.
type Operator struct {
	ID          int64     `json:"id" example:"1"`
	Username    string    `json:"username" example:"jane"`
	DisplayName string    `json:"displayName" example:"Jane Doe"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
