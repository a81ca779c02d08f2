package domain

import "time"

type Announcement struct {
	ID      AnnouncementID
	Title   string
	Content string // markdown

	PublishDate time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
