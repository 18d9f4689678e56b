package model

import (
	"slices"
	"strings"

	"gorm.io/datatypes"
)

// Ingredient is immutable reference data describing a raw material.
type Ingredient struct {
	BaseModel
	Name           string                      `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Allergens      datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"allergens"`
	Certifications datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"certifications"`
	StorageType    StorageType                 `gorm:"type:varchar(20);not null;default:'DRY'" json:"storageType"`
}

// HasAllergen checks tags case-insensitively.
func (i *Ingredient) HasAllergen(tag string) bool {
	return slices.ContainsFunc(i.Allergens, func(a string) bool {
		return strings.EqualFold(a, tag)
	})
}

// Supplier delivers ingredient lots.
type Supplier struct {
	BaseModel
	Name         string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	ContactEmail string `gorm:"type:varchar(255)" json:"contactEmail,omitempty"`
}

// Recipe is a versioned formulation referenced by production runs.
type Recipe struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null;uniqueIndex:idx_recipe_version" json:"name"`
	Version     int    `gorm:"not null;default:1;uniqueIndex:idx_recipe_version" json:"version"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}
