package domain

import "time"

type PropertyType string

const (
	PropertyResidential PropertyType = "residential"
	PropertyCommercial  PropertyType = "commercial"
)

type AccessInfo struct {
	Method string `json:"method"` // code, key, onsite, concierge, other
	Notes  string `json:"notes,omitempty"`
}

type ParkingInfo struct {
	Type  string `json:"type"` // driveway, street, garage, loading, other
	Notes string `json:"notes,omitempty"`
}

type PetInfo struct {
	Kind  string `json:"kind"`
	Notes string `json:"notes,omitempty"`
}

type CleaningPrefs struct {
	FragranceFree bool   `json:"fragranceFree"`
	NoBleach      bool   `json:"noBleach"`
	NoAmmonia     bool   `json:"noAmmonia"`
	Supplies      string `json:"supplies"` // bring_all, customer_provides, eco_only
	Notes         string `json:"notes,omitempty"`
}

// Property is a saved service location belonging to a client. Quotes may
// reference one by id instead of carrying an inline snapshot.
type Property struct {
	ID          int64         `json:"id"`
	OwnerID     int64         `json:"ownerId"`
	Type        PropertyType  `json:"type"`
	Subtype     string        `json:"subtype"`
	Name        string        `json:"name,omitempty"`
	Address     Address       `json:"address"`
	Size        PropertySize  `json:"size"`
	Access      AccessInfo    `json:"access"`
	Parking     ParkingInfo   `json:"parking"`
	Pets        []PetInfo     `json:"pets,omitempty"`
	Preferences CleaningPrefs `json:"preferences"`
	IsDefault   bool          `json:"isDefault"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
