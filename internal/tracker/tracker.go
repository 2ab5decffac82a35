// Package tracker manages outreach and job-application records. It shares
// the document store abstraction with the link core but is otherwise
// independent of it.
package tracker

import (
	"errors"
	"time"
)

// Collection is the document store collection holding application records.
const Collection = "applications"

// ErrNotFound is returned when an application id does not exist.
var ErrNotFound = errors.New("application not found")

// PlatformDirect is the default platform for a plain application not tied
// to any outreach channel.
const PlatformDirect = "Direct"

// Common pipeline statuses. The set is owner-defined and not validated;
// these are the values the dashboard offers.
const (
	StatusApplied      = "Applied"
	StatusInterviewing = "Interviewing"
	StatusReplied      = "Replied"
	StatusAccepted     = "Accepted"
	StatusRejected     = "Rejected"
	StatusGhosted      = "Ghosted"
)

// Application is one outreach/job-application record owned by a single user.
type Application struct {
	ID        string
	UserID    string
	Company   string
	Role      string
	Platform  string
	Status    string
	AppliedAt time.Time
}
