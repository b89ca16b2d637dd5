package models

import "time"

// Draft is the single unsent journal composition kept per user.
type Draft struct {
	UserID    string    `bson:"_id" json:"user_id"`
	Text      string    `bson:"text" json:"text"`
	Template  string    `bson:"template,omitempty" json:"template,omitempty"`
	ImageURL  string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
