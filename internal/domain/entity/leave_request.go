package entity

import "time"

// LeaveRequest is a two-stage (manager, then HR) approval request for time
// off. Days is precomputed by the caller and never re-derived here.
type LeaveRequest struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	ManagerID  string    `json:"managerId"`
	LeaveType  string    `json:"leaveType"`
	FromDate   time.Time `json:"fromDate"`
	ToDate     time.Time `json:"toDate"`
	Days       int       `json:"days"`
	Reason     string    `json:"reason,omitempty"`
	Status     string    `json:"status"`

	ManagerComments   string     `json:"managerComments,omitempty"`
	ManagerApprovedAt *time.Time `json:"managerApprovedAt,omitempty"`
	ManagerRejectedAt *time.Time `json:"managerRejectedAt,omitempty"`
	HRComments        string     `json:"hrComments,omitempty"`
	HRApprovedAt      *time.Time `json:"hrApprovedAt,omitempty"`
	HRRejectedAt      *time.Time `json:"hrRejectedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsValidLeaveType reports whether t is one of the supported leave types.
func IsValidLeaveType(t string) bool {
	switch t {
	case LeaveTypeAnnual, LeaveTypeSick, LeaveTypePersonal, LeaveTypeUnpaid:
		return true
	}
	return false
}
