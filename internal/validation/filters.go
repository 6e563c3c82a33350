package validation

import (
	"net/url"

	"couple-journal-backend/internal/models"
	"couple-journal-backend/internal/pagination"
)

func RelationshipListQuery(values url.Values) (models.RelationshipFilter, pagination.Params, error) {
	q := NewQueryReader(values)
	page := q.Pagination()
	f := models.RelationshipFilter{
		Status:       Enum[models.RelationshipStatus](q, "status"),
		IncludeEnded: q.Flag("includeEnded", false),
	}
	return f, page, q.Err()
}

func RelationshipGetQuery(values url.Values) (models.RelationshipIncludes, error) {
	q := NewQueryReader(values)
	inc := models.RelationshipIncludes{
		Settings:       q.Flag("includeSettings", false),
		Milestones:     q.Flag("includeMilestones", false),
		RecentTimeline: q.Flag("includeRecentTimeline", false),
	}
	return inc, q.Err()
}

func MilestoneListQuery(values url.Values) (models.MilestoneFilter, pagination.Params, error) {
	q := NewQueryReader(values)
	page := q.Pagination()
	f := models.MilestoneFilter{
		Category:  Enum[models.MilestoneCategory](q, "category"),
		IsSpecial: q.Bool("isSpecial"),
	}
	f.StartDate, f.EndDate = q.DateRange()
	return f, page, q.Err()
}

func TimelineListQuery(values url.Values) (models.TimelineFilter, pagination.Params, error) {
	q := NewQueryReader(values)
	page := q.Pagination()
	f := models.TimelineFilter{
		Type:           Enum[models.TimelineEntryType](q, "type"),
		IncludePrivate: q.Flag("includePrivate", false),
		Tags:           q.List("tags"),
	}
	f.StartDate, f.EndDate = q.DateRange()
	return f, page, q.Err()
}

func MoodListQuery(values url.Values) (models.MoodFilter, pagination.Params, error) {
	q := NewQueryReader(values)
	page := q.Pagination()
	f := models.MoodFilter{
		Mood:         Enum[models.MoodType](q, "mood"),
		MinIntensity: q.IntRange("minIntensity", 1, 10),
		MaxIntensity: q.IntRange("maxIntensity", 1, 10),
	}
	if f.MinIntensity != nil && f.MaxIntensity != nil && *f.MinIntensity > *f.MaxIntensity {
		q.Fail("maxIntensity", "must not be less than minIntensity")
	}
	f.StartDate, f.EndDate = q.DateRange()
	return f, page, q.Err()
}
