package property

import "homeclean/internal/domain"

type CreatePropertyRequest struct {
	Type        string               `json:"type" binding:"required" validate:"oneof=residential commercial"`
	Subtype     string               `json:"subtype" binding:"required"`
	Name        string               `json:"name"`
	Address     domain.Address       `json:"address" binding:"required"`
	Size        domain.PropertySize  `json:"size"`
	Access      domain.AccessInfo    `json:"access"`
	Parking     domain.ParkingInfo   `json:"parking"`
	Pets        []domain.PetInfo     `json:"pets"`
	Preferences domain.CleaningPrefs `json:"preferences"`
	IsDefault   bool                 `json:"isDefault"`
}
