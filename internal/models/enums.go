package models

import "slices"

// RelationshipStatus is the stage a relationship is in
type RelationshipStatus string

const (
	RelationshipStatusDating    RelationshipStatus = "DATING"
	RelationshipStatusEngaged   RelationshipStatus = "ENGAGED"
	RelationshipStatusMarried   RelationshipStatus = "MARRIED"
	RelationshipStatusSeparated RelationshipStatus = "SEPARATED"
)

var relationshipStatuses = []string{"DATING", "ENGAGED", "MARRIED", "SEPARATED"}

func (s RelationshipStatus) Valid() bool { return slices.Contains(relationshipStatuses, string(s)) }

func (RelationshipStatus) Values() []string { return relationshipStatuses }

// MilestoneCategory classifies a milestone
type MilestoneCategory string

const (
	MilestoneCategoryFirstMeeting MilestoneCategory = "FIRST_MEETING"
	MilestoneCategoryFirstDate    MilestoneCategory = "FIRST_DATE"
	MilestoneCategoryAnniversary  MilestoneCategory = "ANNIVERSARY"
	MilestoneCategoryTravel       MilestoneCategory = "TRAVEL"
	MilestoneCategoryMovingIn     MilestoneCategory = "MOVING_IN"
	MilestoneCategoryEngagement   MilestoneCategory = "ENGAGEMENT"
	MilestoneCategoryWedding      MilestoneCategory = "WEDDING"
	MilestoneCategoryCelebration  MilestoneCategory = "CELEBRATION"
	MilestoneCategoryOther        MilestoneCategory = "OTHER"
)

var milestoneCategories = []string{
	"FIRST_MEETING", "FIRST_DATE", "ANNIVERSARY", "TRAVEL", "MOVING_IN",
	"ENGAGEMENT", "WEDDING", "CELEBRATION", "OTHER",
}

func (c MilestoneCategory) Valid() bool { return slices.Contains(milestoneCategories, string(c)) }

func (MilestoneCategory) Values() []string { return milestoneCategories }

// TimelineEntryType is the kind of a timeline entry
type TimelineEntryType string

const (
	TimelineEntryTypeNote      TimelineEntryType = "NOTE"
	TimelineEntryTypePhoto     TimelineEntryType = "PHOTO"
	TimelineEntryTypeMemory    TimelineEntryType = "MEMORY"
	TimelineEntryTypeMilestone TimelineEntryType = "MILESTONE"
)

var timelineEntryTypes = []string{"NOTE", "PHOTO", "MEMORY", "MILESTONE"}

func (t TimelineEntryType) Valid() bool { return slices.Contains(timelineEntryTypes, string(t)) }

func (TimelineEntryType) Values() []string { return timelineEntryTypes }

// MoodType is the mood recorded in a mood entry
type MoodType string

const (
	MoodHappy   MoodType = "HAPPY"
	MoodLoved   MoodType = "LOVED"
	MoodExcited MoodType = "EXCITED"
	MoodCalm    MoodType = "CALM"
	MoodTired   MoodType = "TIRED"
	MoodSad     MoodType = "SAD"
	MoodAnxious MoodType = "ANXIOUS"
	MoodAngry   MoodType = "ANGRY"
)

var moodTypes = []string{"HAPPY", "LOVED", "EXCITED", "CALM", "TIRED", "SAD", "ANXIOUS", "ANGRY"}

func (m MoodType) Valid() bool { return slices.Contains(moodTypes, string(m)) }

func (MoodType) Values() []string { return moodTypes }
