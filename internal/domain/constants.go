package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Account trust states. Transitions happen only through the account
// service; a held account (pending verification) is a flag on the
// user, not a fourth status value.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusBanned    = "banned"
)

const (
	ReportStatusPending   = "pending"
	ReportStatusProcessed = "processed"
	ReportStatusRejected  = "rejected"
)

// Dispositions an admin can apply to a pending report.
const (
	ActionSuspend = "suspend"
	ActionWarning = "warning"
	ActionIgnore  = "ignore"
)

const (
	TargetTypePost    = "post"
	TargetTypeComment = "comment"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Activity log action codes.
const (
	LogReportCreated      = "create_report"
	LogReportDisposed     = "report_disposed"
	LogReportRejected     = "report_rejected"
	LogAccountSuspended   = "account_suspended"
	LogAccountBanned      = "account_banned"
	LogAccountActivated   = "account_activated"
	LogWarningIssued      = "warning_issued"
	LogUnbanRequested     = "unban_requested"
	LogUnbanDisposed      = "unban_request_disposed"
	LogVerificationOpened = "verification_opened"
	LogVerifDisposed      = "verification_disposed"
	LogAccountDeleted     = "account_deleted"
	LogProfileSetup       = "profile_setup"
)

// Report reason codes accepted from clients. Treated as opaque beyond
// membership in this set.
var ReportReasons = []string{"spam", "abuse", "privacy", "obscenity", "other"}

// ScrubbedValue replaces email and IP fields once the retention
// window has elapsed.
const ScrubbedValue = "[deleted]"

// TombstoneReason is written into report content snapshots when the
// retention sweep permanently removes the underlying content.
const TombstoneReason = "retention-expired"

// BanReasonReRegistration is the system-generated reason applied when
// a verification request is rejected.
const BanReasonReRegistration = "re-registration denied: prior account violation history"
