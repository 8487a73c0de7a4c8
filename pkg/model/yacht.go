package model

// YachtStatus is the operational state of a yacht.
type YachtStatus string

const (
	YachtActive      YachtStatus = "active"
	YachtMaintenance YachtStatus = "maintenance"
	YachtChartered   YachtStatus = "chartered"
	YachtInactive    YachtStatus = "inactive"
)

func (s YachtStatus) Valid() bool {
	switch s {
	case YachtActive, YachtMaintenance, YachtChartered, YachtInactive:
		return true
	}
	return false
}

// Yacht is a yacht profile.
type Yacht struct {
	Base
	Name               string      `gorm:"column:name;size:200;not null" json:"name"`
	RegistrationNumber string      `gorm:"column:registration_number;size:64;uniqueIndex" json:"registrationNumber"`
	IMONumber          string      `gorm:"column:imo_number;size:16" json:"imoNumber,omitempty"`
	Flag               string      `gorm:"column:flag;size:64" json:"flag,omitempty"`
	Type               string      `gorm:"column:type;size:64" json:"type,omitempty"`
	LengthOverall      float64     `gorm:"column:length_overall" json:"lengthOverall,omitempty"`
	Beam               float64     `gorm:"column:beam" json:"beam,omitempty"`
	Draft              float64     `gorm:"column:draft" json:"draft,omitempty"`
	GrossTonnage       float64     `gorm:"column:gross_tonnage" json:"grossTonnage,omitempty"`
	YearBuilt          int         `gorm:"column:year_built" json:"yearBuilt,omitempty"`
	Builder            string      `gorm:"column:builder;size:200" json:"builder,omitempty"`
	HomePort           string      `gorm:"column:home_port;size:200" json:"homePort,omitempty"`
	OwnerID            string      `gorm:"column:owner_id;size:64;index" json:"ownerId"`
	Status             YachtStatus `gorm:"column:status;size:16;not null;default:active" json:"status"`
}

func (Yacht) TableName() string {
	return "yachts"
}
