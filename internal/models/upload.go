package models

import "time"

// Upload is a PDF waiting to be summarized. It is consumed by its first read.
type Upload struct {
	ID          string    `json:"id"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Data        []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
