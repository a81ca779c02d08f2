package domain

// SubjectID is the authenticated staff subject extracted from token claims (typically "sub").
// We model it as an opaque identifier: its format is controlled by the IdP.
type SubjectID string

// MemberID is an internal identifier for a member record.
type MemberID string

// PlanID is an internal identifier for a membership plan.
type PlanID string

// AnnouncementID is an internal identifier for an announcement.
type AnnouncementID string
