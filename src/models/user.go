package models

import "time"

// User is a staff account bound to one building.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	BuildingID   string    `bson:"buildingId" json:"buildingId"`
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	Role         string    `bson:"role" json:"role"`
	PasswordHash string    `bson:"password" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
