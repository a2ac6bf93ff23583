package entity

import "time"

// Employee is reference data used for approver routing and notification
// recipient lookup. Employee administration itself lives outside this
// service.
type Employee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	ManagerID  string    `json:"managerId,omitempty"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
