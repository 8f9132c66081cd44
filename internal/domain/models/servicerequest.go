// internal/domain/models/servicerequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service request status values.
const (
	StatusOpen       = "open"
	StatusAssigned   = "assigned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Service request priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ServiceRequest is a request for help posted by a community member.
//
// RequesterID is set at creation and never changes. VolunteerID stays nil
// until the request is claimed. CompletedAt is set once, on the transition
// into StatusCompleted.
type ServiceRequest struct {
	ID            primitive.ObjectID  `bson:"_id"`
	Title         string              `bson:"title"`
	TitleCI       string              `bson:"title_ci"`
	Description   string              `bson:"description"`
	CategoryID    *primitive.ObjectID `bson:"category_id,omitempty"`
	RequesterID   primitive.ObjectID  `bson:"requester_id"`
	VolunteerID   *primitive.ObjectID `bson:"volunteer_id,omitempty"`
	Status        string              `bson:"status"`
	Priority      string              `bson:"priority"`
	Location      string              `bson:"location,omitempty"`
	ContactInfo   string              `bson:"contact_info,omitempty"`
	EstimatedTime string              `bson:"estimated_time,omitempty"`
	CreatedAt     time.Time           `bson:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at"`
	CompletedAt   *time.Time          `bson:"completed_at,omitempty"`
}

// Statuses lists every lifecycle status in display order.
var Statuses = []string{StatusOpen, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled}

// Priorities lists every priority in display order.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

var statusLabels = map[string]string{
	StatusOpen:       "Open",
	StatusAssigned:   "Assigned",
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
	StatusCancelled:  "Cancelled",
}

var priorityLabels = map[string]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
	PriorityUrgent: "Urgent",
}

// IsValidStatus reports whether s is one of the five status tokens.
func IsValidStatus(s string) bool {
	_, ok := statusLabels[s]
	return ok
}

// IsValidPriority reports whether p is one of the four priority tokens.
func IsValidPriority(p string) bool {
	_, ok := priorityLabels[p]
	return ok
}

// StatusLabel returns the display name for a status token.
func StatusLabel(s string) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return s
}

// PriorityLabel returns the display name for a priority token.
func PriorityLabel(p string) string {
	if l, ok := priorityLabels[p]; ok {
		return l
	}
	return p
}
