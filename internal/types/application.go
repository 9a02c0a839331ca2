//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"time"
)

// ApplicationStatus is the lifecycle state of a saved application
type ApplicationStatus string

// Status constants. The first five form the ordered tracking board; trash is
// the soft-deleted state.
const (
	StatusTodo      ApplicationStatus = "todo"
	StatusApplied   ApplicationStatus = "applied"
	StatusInterview ApplicationStatus = "interview"
	StatusOffer     ApplicationStatus = "offer"
	StatusRejected  ApplicationStatus = "rejected"
	StatusTrash     ApplicationStatus = "trash"
)

// StatusTrack is the ordered board a saved application moves along.
var StatusTrack = []ApplicationStatus{
	StatusTodo,
	StatusApplied,
	StatusInterview,
	StatusOffer,
	StatusRejected,
}

// TrackIndex returns the position of s on StatusTrack, or -1 for trash and
// unknown values.
func (s ApplicationStatus) TrackIndex() int {
	for i, st := range StatusTrack {
		if st == s {
			return i
		}
	}
	return -1
}

// ParseStatus converts user input into an ApplicationStatus.
func ParseStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	if st == StatusTrash || st.TrackIndex() >= 0 {
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// Direction moves a saved application along StatusTrack
type Direction string

// Direction constants
const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// SavedApplication is a generation result kept in the history
type SavedApplication struct {
	ID               string            `json:"id"`
	CreatedAt        time.Time         `json:"createdAt"`
	ProfileUsedID    string            `json:"profileUsedId"`
	JobDescription   string            `json:"jobDescription"`
	ChatHistory      []ChatMessage     `json:"chatHistory"`
	GeneratedContent GeneratedContent  `json:"generatedContent"`
	Status           ApplicationStatus `json:"status"`
	DeletedAt        *time.Time        `json:"deletedAt,omitempty"`
}

// IsTrashed reports whether the application sits in the trash.
func (a *SavedApplication) IsTrashed() bool {
	return a.Status == StatusTrash
}

// NewApplication carries the fields a caller supplies when saving an artifact
// to the history. ID and CreatedAt are assigned by the repository.
type NewApplication struct {
	ProfileUsedID    string
	JobDescription   string
	ChatHistory      []ChatMessage
	GeneratedContent GeneratedContent
	Status           ApplicationStatus
}
