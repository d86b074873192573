package models

import (
	"time"
)

type Tag struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Name   string `gorm:"size:255;not null" json:"name"`
	UserID uint   `gorm:"not null;index" json:"-"`
}

type Ingredient struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Name   string `gorm:"size:255;not null" json:"name"`
	UserID uint   `gorm:"not null;index" json:"-"`
}

type Recipe struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	TimeMinutes int          `gorm:"not null" json:"time_minutes"`
	Price       float64      `gorm:"type:decimal(5,2);not null" json:"price"`
	Description string       `gorm:"type:text" json:"description"`
	Link        string       `gorm:"size:255" json:"link"`
	Image       string       `gorm:"size:255" json:"image"`
	UserID      uint         `gorm:"not null;index" json:"-"`
	Tags        []Tag        `gorm:"many2many:recipe_tags" json:"tags"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients" json:"ingredients"`
}
