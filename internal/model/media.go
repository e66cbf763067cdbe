package model

import (
	"fmt"
	"time"
)

type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

type Category string

const (
	CategoryCompetitions Category = "competitions"
	CategoryTraining     Category = "training"
	CategoryEvents       Category = "events"
)

// Categories lists every category accepted by the admin panel.
var Categories = []Category{CategoryCompetitions, CategoryTraining, CategoryEvents}

func (c Category) Valid() bool {
	switch c {
	case CategoryCompetitions, CategoryTraining, CategoryEvents:
		return true
	default:
		return false
	}
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// DateLayout is the calendar date format used by Media.Date.
const DateLayout = "2006-01-02"

// Media is one uploaded asset as persisted in the metadata document.
type Media struct {
	ID          string    `json:"id"`
	Type        MediaType `json:"type"`
	URL         string    `json:"url"`
	Pathname    string    `json:"pathname"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Category    Category  `json:"category"`
	Date        string    `json:"date"`
	UploadedBy  string    `json:"uploadedBy"`
	UploadedAt  time.Time `json:"uploadedAt"`
	Size        int64     `json:"size"`
}

// MediaPatch holds the editable fields of a Media. Nil fields are left untouched.
type MediaPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Date        *string   `json:"date,omitempty"`
}

// Apply merges the patch into m. Identity and storage fields are never touched.
func (p MediaPatch) Apply(m *Media) {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Location != nil {
		m.Location = *p.Location
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.Date != nil {
		m.Date = *p.Date
	}
}

func (p MediaPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Location == nil && p.Category == nil && p.Date == nil
}

// MetadataDocument is the single logical document listing every media.
type MetadataDocument struct {
	LastUpdated time.Time `json:"lastUpdated"`
	Medias      []Media   `json:"medias"`
}

// NewMetadataDocument returns an empty document stamped with now.
func NewMetadataDocument(now time.Time) MetadataDocument {
	return MetadataDocument{LastUpdated: now, Medias: []Media{}}
}

// IndexOf returns the position of the media with the given id, or -1.
func (d MetadataDocument) IndexOf(id string) int {
	for i, m := range d.Medias {
		if m.ID == id {
			return i
		}
	}
	return -1
}
