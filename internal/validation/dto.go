package validation

import (
	"strings"
	"time"

	"couple-journal-backend/internal/models"
)

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func trimAll(list []string) {
	for i := range list {
		list[i] = strings.TrimSpace(list[i])
	}
}

// mustDate converts a value already accepted by the isodate rule
func mustDate(s string) time.Time {
	t, _ := ParseDate(s)
	return t
}

func optDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t := mustDate(*s)
	return &t
}

// Users

type UserCreate struct {
	Name  string  `json:"name" validate:"required,min=1,max=100"`
	Email string  `json:"email" validate:"required,email"`
	Image *string `json:"image" validate:"omitempty,url"`
}

func (d *UserCreate) normalize() {
	trim(&d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	trim(d.Image)
}

type UserUpdate struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
}

func (d *UserUpdate) normalize() { trim(d.Name) }

func (d *UserUpdate) Patch() models.UserPatch {
	return models.UserPatch{Name: d.Name}
}

// Relationships

type RelationshipCreate struct {
	PartnerID string                     `json:"partnerId" validate:"required,uuid"`
	Status    *models.RelationshipStatus `json:"status" validate:"omitempty,enum"`
	StartDate string                     `json:"startDate" validate:"required,isodate"`
}

func (d *RelationshipCreate) normalize() {
	d.PartnerID = strings.ToLower(strings.TrimSpace(d.PartnerID))
}

func (d *RelationshipCreate) Model(userID string) *models.Relationship {
	status := models.RelationshipStatusDating
	if d.Status != nil {
		status = *d.Status
	}
	return &models.Relationship{
		Partner1ID: userID,
		Partner2ID: d.PartnerID,
		Status:     status,
		StartDate:  mustDate(d.StartDate),
	}
}

type RelationshipUpdate struct {
	Status    *models.RelationshipStatus `json:"status" validate:"omitempty,enum"`
	StartDate *string                    `json:"startDate" validate:"omitempty,isodate"`
	EndDate   NullableString             `json:"endDate" validate:"omitempty,isodate"`
}

func (d *RelationshipUpdate) Patch() models.RelationshipPatch {
	p := models.RelationshipPatch{
		Status:    d.Status,
		StartDate: optDate(d.StartDate),
	}
	if d.EndDate.Set {
		p.EndDateSet = true
		if !d.EndDate.Null {
			t := mustDate(d.EndDate.Value)
			p.EndDate = &t
		}
	}
	return p
}

type SettingsUpdate struct {
	IsPublic       *bool   `json:"isPublic"`
	AllowMoodShare *bool   `json:"allowMoodShare"`
	Timezone       *string `json:"timezone" validate:"omitempty,iana_tz"`
}

func (d *SettingsUpdate) normalize() { trim(d.Timezone) }

func (d *SettingsUpdate) Patch() models.SettingsPatch {
	return models.SettingsPatch{IsPublic: d.IsPublic, AllowMoodShare: d.AllowMoodShare, Timezone: d.Timezone}
}

// Milestones

type MilestoneCreate struct {
	Title          string                   `json:"title" validate:"required,min=1,max=200"`
	Description    *string                  `json:"description" validate:"omitempty,max=1000"`
	Date           string                   `json:"date" validate:"required,isodate"`
	Category       models.MilestoneCategory `json:"category" validate:"required,enum"`
	IsSpecial      *bool                    `json:"isSpecial"`
	Photos         []string                 `json:"photos" validate:"max=10,dive,url"`
	Location       *string                  `json:"location" validate:"omitempty,max=200"`
	RelationshipID string                   `json:"relationshipId" validate:"required,uuid"`
}

func (d *MilestoneCreate) normalize() {
	trim(&d.Title)
	trim(d.Description)
	trim(d.Location)
	trimAll(d.Photos)
	if d.Photos == nil {
		d.Photos = []string{}
	}
	d.RelationshipID = strings.ToLower(strings.TrimSpace(d.RelationshipID))
}

func (d *MilestoneCreate) Model() *models.Milestone {
	return &models.Milestone{
		RelationshipID: d.RelationshipID,
		Title:          d.Title,
		Description:    d.Description,
		Date:           mustDate(d.Date),
		Category:       d.Category,
		IsSpecial:      d.IsSpecial != nil && *d.IsSpecial,
		Photos:         d.Photos,
		Location:       d.Location,
	}
}

type MilestoneUpdate struct {
	Title       *string                   `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string                   `json:"description" validate:"omitempty,max=1000"`
	Date        *string                   `json:"date" validate:"omitempty,isodate"`
	Category    *models.MilestoneCategory `json:"category" validate:"omitempty,enum"`
	IsSpecial   *bool                     `json:"isSpecial"`
	Photos      *[]string                 `json:"photos" validate:"omitempty,max=10,dive,url"`
	Location    *string                   `json:"location" validate:"omitempty,max=200"`
}

func (d *MilestoneUpdate) normalize() {
	trim(d.Title)
	trim(d.Description)
	trim(d.Location)
	if d.Photos != nil {
		trimAll(*d.Photos)
	}
}

func (d *MilestoneUpdate) Patch() models.MilestonePatch {
	return models.MilestonePatch{
		Title:       d.Title,
		Description: d.Description,
		Date:        optDate(d.Date),
		Category:    d.Category,
		IsSpecial:   d.IsSpecial,
		Photos:      d.Photos,
		Location:    d.Location,
	}
}

// Timeline entries

type TimelineEntryCreate struct {
	Title          string                   `json:"title" validate:"required,min=1,max=200"`
	Content        *string                  `json:"content" validate:"omitempty,max=2000"`
	Type           models.TimelineEntryType `json:"type" validate:"required,enum"`
	Date           string                   `json:"date" validate:"required,isodate"`
	Photos         []string                 `json:"photos" validate:"max=20,dive,url"`
	Location       *string                  `json:"location" validate:"omitempty,max=200"`
	Tags           []string                 `json:"tags" validate:"max=10,dive,min=1,max=50"`
	IsPrivate      bool                     `json:"isPrivate"`
	RelationshipID string                   `json:"relationshipId" validate:"required,uuid"`
}

func (d *TimelineEntryCreate) normalize() {
	trim(&d.Title)
	trim(d.Content)
	trim(d.Location)
	trimAll(d.Photos)
	trimAll(d.Tags)
	if d.Photos == nil {
		d.Photos = []string{}
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	d.RelationshipID = strings.ToLower(strings.TrimSpace(d.RelationshipID))
}

func (d *TimelineEntryCreate) Model(userID string) *models.TimelineEntry {
	return &models.TimelineEntry{
		RelationshipID: d.RelationshipID,
		UserID:         userID,
		Title:          d.Title,
		Content:        d.Content,
		Type:           d.Type,
		Date:           mustDate(d.Date),
		Photos:         d.Photos,
		Location:       d.Location,
		Tags:           d.Tags,
		IsPrivate:      d.IsPrivate,
	}
}

type TimelineEntryUpdate struct {
	Title     *string                   `json:"title" validate:"omitempty,min=1,max=200"`
	Content   *string                   `json:"content" validate:"omitempty,max=2000"`
	Type      *models.TimelineEntryType `json:"type" validate:"omitempty,enum"`
	Date      *string                   `json:"date" validate:"omitempty,isodate"`
	Photos    *[]string                 `json:"photos" validate:"omitempty,max=20,dive,url"`
	Location  *string                   `json:"location" validate:"omitempty,max=200"`
	Tags      *[]string                 `json:"tags" validate:"omitempty,max=10,dive,min=1,max=50"`
	IsPrivate *bool                     `json:"isPrivate"`
}

func (d *TimelineEntryUpdate) normalize() {
	trim(d.Title)
	trim(d.Content)
	trim(d.Location)
	if d.Photos != nil {
		trimAll(*d.Photos)
	}
	if d.Tags != nil {
		trimAll(*d.Tags)
	}
}

func (d *TimelineEntryUpdate) Patch() models.TimelineEntryPatch {
	return models.TimelineEntryPatch{
		Title:     d.Title,
		Content:   d.Content,
		Type:      d.Type,
		Date:      optDate(d.Date),
		Photos:    d.Photos,
		Location:  d.Location,
		Tags:      d.Tags,
		IsPrivate: d.IsPrivate,
	}
}

// Mood entries

type MoodEntryCreate struct {
	Mood      models.MoodType `json:"mood" validate:"required,enum"`
	Intensity *int            `json:"intensity" validate:"required,min=1,max=10"`
	Note      *string         `json:"note" validate:"omitempty,max=500"`
	Date      *string         `json:"date" validate:"omitempty,isodate"`
}

func (d *MoodEntryCreate) normalize() { trim(d.Note) }

// Model builds the entry; a missing date defaults to now
func (d *MoodEntryCreate) Model(userID string, now time.Time) *models.MoodEntry {
	date := now.UTC()
	if d.Date != nil {
		date = mustDate(*d.Date)
	}
	return &models.MoodEntry{
		UserID:    userID,
		Mood:      d.Mood,
		Intensity: *d.Intensity,
		Note:      d.Note,
		Date:      date,
	}
}

type MoodEntryUpdate struct {
	Mood      *models.MoodType `json:"mood" validate:"omitempty,enum"`
	Intensity *int             `json:"intensity" validate:"omitempty,min=1,max=10"`
	Note      *string          `json:"note" validate:"omitempty,max=500"`
	Date      *string          `json:"date" validate:"omitempty,isodate"`
}

func (d *MoodEntryUpdate) normalize() { trim(d.Note) }

func (d *MoodEntryUpdate) Patch() models.MoodEntryPatch {
	return models.MoodEntryPatch{Mood: d.Mood, Intensity: d.Intensity, Note: d.Note, Date: optDate(d.Date)}
}

// Photos

type PhotoUpload struct {
	Filename    string `json:"filename" validate:"required,min=1,max=255"`
	ContentType string `json:"contentType" validate:"required,startswith=image/"`
}

func (d *PhotoUpload) normalize() {
	trim(&d.Filename)
	d.ContentType = strings.ToLower(strings.TrimSpace(d.ContentType))
	if d.ContentType == "" {
		d.ContentType = "image/jpeg"
	}
}
