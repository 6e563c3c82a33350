package models

import "time"

// Patch types carry partial updates. A nil field is left unchanged.

type UserPatch struct {
	Name *string
}

type RelationshipPatch struct {
	Status    *RelationshipStatus
	StartDate *time.Time
	// EndDateSet distinguishes "clear endDate" (set, nil) from "untouched"
	EndDateSet bool
	EndDate    *time.Time
}

type SettingsPatch struct {
	IsPublic       *bool
	AllowMoodShare *bool
	Timezone       *string
}

type MilestonePatch struct {
	Title       *string
	Description *string
	Date        *time.Time
	Category    *MilestoneCategory
	IsSpecial   *bool
	Photos      *[]string
	Location    *string
}

type TimelineEntryPatch struct {
	Title     *string
	Content   *string
	Type      *TimelineEntryType
	Date      *time.Time
	Photos    *[]string
	Location  *string
	Tags      *[]string
	IsPrivate *bool
}

type MoodEntryPatch struct {
	Mood      *MoodType
	Intensity *int
	Note      *string
	Date      *time.Time
}
