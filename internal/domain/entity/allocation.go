package entity

import "time"

// LeaveAllocation is the per-employee, per-year leave balance record. Granted
// counters are set when the allocation is provisioned; used counters are
// mutated only by the leave ledger on HR final approval.
type LeaveAllocation struct {
	EmployeeID string `json:"employeeId"`
	Year       int    `json:"year"`

	AnnualLeave       int `json:"annualLeave"`
	AnnualLeaveUsed   int `json:"annualLeaveUsed"`
	SickLeave         int `json:"sickLeave"`
	SickLeaveUsed     int `json:"sickLeaveUsed"`
	PersonalLeave     int `json:"personalLeave"`
	PersonalLeaveUsed int `json:"personalLeaveUsed"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
