package entity

// Actor roles recognized by the approval workflows.
const (
	RoleEmployee    = "employee"
	RoleManager     = "manager"
	RoleHR          = "hr"
	RoleProcurement = "procurement"
	RoleFinance     = "finance"
	RoleAdmin       = "admin"
)

// Leave request status values.
const (
	LeaveStatusPendingManager  = "pending_manager"
	LeaveStatusApprovedManager = "approved_manager"
	LeaveStatusRejectedManager = "rejected_manager"
	LeaveStatusPendingHR       = "pending_hr"
	LeaveStatusApproved        = "approved"
	LeaveStatusRejected        = "rejected"
)

// Leave types. Unpaid leave never touches the allocation ledger.
const (
	LeaveTypeAnnual   = "annual"
	LeaveTypeSick     = "sick"
	LeaveTypePersonal = "personal"
	LeaveTypeUnpaid   = "unpaid"
)

// Travel request status values.
const (
	TravelStatusPendingManager  = "pending_manager"
	TravelStatusApprovedManager = "approved_manager"
	TravelStatusRejectedManager = "rejected_manager"
	TravelStatusPendingBooking  = "pending_booking"
	TravelStatusBooked          = "booked"
	TravelStatusCompleted       = "completed"
	TravelStatusCancelled       = "cancelled"
)

// Material request status values.
const (
	MaterialStatusPending  = "pending"
	MaterialStatusApproved = "approved"
	MaterialStatusRejected = "rejected"
)

// Purchase order status values.
const (
	POStatusDraft          = "draft"
	POStatusPendingReview  = "pending_review"
	POStatusReviewed       = "reviewed"
	POStatusApproved       = "approved"
	POStatusPaymentPending = "payment_pending"
	POStatusPaid           = "paid"
	POStatusReceived       = "received"
	POStatusCancelled      = "cancelled"
)

// Policy status values. Title-cased with spaces to match the stored documents.
const (
	PolicyStatusDraft           = "Draft"
	PolicyStatusPendingApproval = "Pending Approval"
	PolicyStatusPublished       = "Published"
)

// Policy version entry status values. At most one entry per policy is Current.
const (
	PolicyVersionCurrent  = "Current"
	PolicyVersionArchived = "Archived"
)

// Entity type labels used in audit records and notifications.
const (
	EntityTypeLeaveRequest    = "leave_request"
	EntityTypeTravelRequest   = "travel_request"
	EntityTypeMaterialRequest = "material_request"
	EntityTypePurchaseOrder   = "purchase_order"
	EntityTypePolicy          = "policy"
)

// Audit record outcome values.
const (
	AuditOutcomeSuccess = "success"
	AuditOutcomeFailure = "failure"
)

// Sequence names for formatted identifier generation.
const (
	SequenceMaterialRequest = "material_request"
	SequencePurchaseOrder   = "purchase_order"
	SequenceVendor          = "vendor"
)
