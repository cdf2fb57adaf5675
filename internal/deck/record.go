package deck

import "gorm.io/gorm"

// Record is a generated deck as stored in the library.
type Record struct {
	gorm.Model
	PublicID       string `gorm:"size:36;uniqueIndex:idx_decks_public_id;not null"`
	Topic          string `gorm:"size:512;not null"`
	SlideCount     int
	ArtifactPath   string `gorm:"size:1024;not null"`
	ArtifactSize   int64
	GeneratorModel string `gorm:"size:255"`
}

// TableName sets the table name for the Record model.
func (Record) TableName() string {
	return "decks"
}
