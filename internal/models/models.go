package models

import "time"

// User represents a user in the system
type User struct {
	ID        string    `json:"id"`
	Name      *string   `json:"name"`
	Email     *string   `json:"email"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSummary is the public part of a user embedded in other resources
type UserSummary struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Email *string `json:"email,omitempty"`
	Image *string `json:"image"`
}

// Relationship represents two partners tracked together
type Relationship struct {
	ID         string             `json:"id"`
	Partner1ID string             `json:"partner1Id"`
	Partner2ID string             `json:"partner2Id"`
	Status     RelationshipStatus `json:"status"`
	StartDate  time.Time          `json:"startDate"`
	EndDate    *time.Time         `json:"endDate"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`

	Partner1 *UserSummary `json:"partner1,omitempty"`
	Partner2 *UserSummary `json:"partner2,omitempty"`
}

// HasPartner reports whether userID is one of the two partners
func (r *Relationship) HasPartner(userID string) bool {
	return r.Partner1ID == userID || r.Partner2ID == userID
}

// PartnerOf returns the other partner's id
func (r *Relationship) PartnerOf(userID string) string {
	if r.Partner1ID == userID {
		return r.Partner2ID
	}
	return r.Partner1ID
}

// RelationshipCounts holds child record counts shown in relationship lists
type RelationshipCounts struct {
	Milestones int `json:"milestones"`
	Timeline   int `json:"timeline"`
}

// RelationshipSummary is a relationship as returned by the list endpoint
type RelationshipSummary struct {
	Relationship
	Counts RelationshipCounts `json:"counts"`
}

// RelationshipDetail is a relationship with optional related collections
type RelationshipDetail struct {
	Relationship
	Settings       *RelationshipSettings `json:"settings,omitempty"`
	Milestones     []*Milestone          `json:"milestones,omitempty"`
	RecentTimeline []*TimelineEntry      `json:"recentTimeline,omitempty"`
}

// RelationshipSettings holds per-relationship preferences
type RelationshipSettings struct {
	ID             string    `json:"id"`
	RelationshipID string    `json:"relationshipId"`
	IsPublic       bool      `json:"isPublic"`
	AllowMoodShare bool      `json:"allowMoodShare"`
	Timezone       string    `json:"timezone"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Milestone is a dated, categorized event of a relationship
type Milestone struct {
	ID             string            `json:"id"`
	RelationshipID string            `json:"relationshipId"`
	Title          string            `json:"title"`
	Description    *string           `json:"description"`
	Date           time.Time         `json:"date"`
	Category       MilestoneCategory `json:"category"`
	IsSpecial      bool              `json:"isSpecial"`
	Photos         []string          `json:"photos"`
	Location       *string           `json:"location"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// TimelineEntry is a note, photo or memory authored by one partner
type TimelineEntry struct {
	ID             string            `json:"id"`
	RelationshipID string            `json:"relationshipId"`
	UserID         string            `json:"userId"`
	Title          string            `json:"title"`
	Content        *string           `json:"content"`
	Type           TimelineEntryType `json:"type"`
	Date           time.Time         `json:"date"`
	Photos         []string          `json:"photos"`
	Location       *string           `json:"location"`
	Tags           []string          `json:"tags"`
	IsPrivate      bool              `json:"isPrivate"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`

	Author *UserSummary `json:"user,omitempty"`
}

// VisibleTo reports whether userID may read the entry, assuming relationship membership
func (e *TimelineEntry) VisibleTo(userID string) bool {
	return !e.IsPrivate || e.UserID == userID
}

// MoodEntry is a personal mood log owned by one user
type MoodEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Mood      MoodType  `json:"mood"`
	Intensity int       `json:"intensity"`
	Note      *string   `json:"note"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
