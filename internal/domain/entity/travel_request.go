package entity

import "time"

// BookingDetails is populated by the travel desk once a request reaches
// pending_booking. It stays empty until then.
type BookingDetails struct {
	TicketBooked    bool       `json:"ticketBooked"`
	HotelBooked     bool       `json:"hotelBooked"`
	TicketReference string     `json:"ticketReference,omitempty"`
	HotelReference  string     `json:"hotelReference,omitempty"`
	BookedAt        *time.Time `json:"bookedAt,omitempty"`
}

// TravelRequest is a manager-approved, then booked, travel workflow entity.
type TravelRequest struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employeeId"`
	ManagerID      string    `json:"managerId"`
	Destination    string    `json:"destination"`
	Purpose        string    `json:"purpose"`
	FromDate       time.Time `json:"fromDate"`
	ToDate         time.Time `json:"toDate"`
	NumberOfDays   int       `json:"numberOfDays"`
	NumberOfNights int       `json:"numberOfNights"`
	Budget         float64   `json:"budget"`
	Status         string    `json:"status"`

	ManagerComments   string     `json:"managerComments,omitempty"`
	ManagerApprovedAt *time.Time `json:"managerApprovedAt,omitempty"`
	ManagerRejectedAt *time.Time `json:"managerRejectedAt,omitempty"`

	BookingDetails BookingDetails `json:"bookingDetails"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
