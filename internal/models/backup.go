package models

import "time"

// Backup indexes one encrypted snapshot file on disk.
type Backup struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	FileName  string    `gorm:"size:255;not null" json:"file_name"`
	FilePath  string    `gorm:"size:1024;not null" json:"-"`
	Size      int64     `gorm:"not null" json:"size"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
