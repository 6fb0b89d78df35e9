package domain

import "time"

type Event struct {
	ID          string      `json:"id" gorm:"primaryKey" bson:"_id"`
	Title       string      `json:"title" gorm:"not null" bson:"title"`
	Description string      `json:"description" gorm:"type:text" bson:"description"`
	Images      []ImageInfo `json:"images" gorm:"serializer:json;type:jsonb" bson:"images"`
	StartDate   time.Time   `json:"startDate" gorm:"index;not null" bson:"startDate"`
	EndDate     time.Time   `json:"endDate" gorm:"not null" bson:"endDate"`
	Location    string      `json:"location" bson:"location"`
	Category    string      `json:"category,omitempty" gorm:"index" bson:"category,omitempty"`
	CreatedBy   string      `json:"createdBy" gorm:"index" bson:"createdBy"`
	IsActive    bool        `json:"isActive" gorm:"not null" bson:"isActive"`
	CreatedAt   time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// ImageDescriptor points at one stored rendition of an image.
type ImageDescriptor struct {
	Filename string `json:"filename" bson:"filename"`
	Path     string `json:"path" bson:"path"`
	Width    int    `json:"width" bson:"width"`
	Height   int    `json:"height" bson:"height"`
}

type Thumbnails struct {
	Small  ImageDescriptor `json:"small" bson:"small"`
	Medium ImageDescriptor `json:"medium" bson:"medium"`
	Large  ImageDescriptor `json:"large" bson:"large"`
}

type ImageInfo struct {
	Original   ImageDescriptor `json:"original" bson:"original"`
	Thumbnails Thumbnails      `json:"thumbnails" bson:"thumbnails"`
}

// Paths returns every distinct stored path. Thumbnails that alias the
// original appear once.
func (i ImageInfo) Paths() []string {
	candidates := []string{
		i.Original.Path,
		i.Thumbnails.Small.Path,
		i.Thumbnails.Medium.Path,
		i.Thumbnails.Large.Path,
	}
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// EventFilter narrows event listings.
type EventFilter struct {
	Search    string
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}
