package models

import "time"

// Filters select list results; nil fields do not constrain.

type RelationshipFilter struct {
	Status       *RelationshipStatus
	IncludeEnded bool
}

type MilestoneFilter struct {
	Category  *MilestoneCategory
	IsSpecial *bool
	StartDate *time.Time
	EndDate   *time.Time
}

type TimelineFilter struct {
	Type           *TimelineEntryType
	IncludePrivate bool
	Tags           []string
	StartDate      *time.Time
	EndDate        *time.Time
}

type MoodFilter struct {
	Mood         *MoodType
	MinIntensity *int
	MaxIntensity *int
	StartDate    *time.Time
	EndDate      *time.Time
}

// RelationshipIncludes selects optional collections on relationship detail
type RelationshipIncludes struct {
	Settings       bool
	Milestones     bool
	RecentTimeline bool
}
