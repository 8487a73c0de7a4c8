package model

type CrewStatus string

const (
	CrewActive  CrewStatus = "active"
	CrewOnLeave CrewStatus = "on_leave"
	CrewFormer  CrewStatus = "former"
)

func (s CrewStatus) Valid() bool {
	switch s {
	case CrewActive, CrewOnLeave, CrewFormer:
		return true
	}
	return false
}

// CrewMember belongs to a yacht.
type CrewMember struct {
	Base
	YachtID        string     `gorm:"column:yacht_id;size:36;not null;index" json:"yachtId"`
	Name           string     `gorm:"column:name;size:200;not null" json:"name"`
	Position       string     `gorm:"column:position;size:100" json:"position"`
	Email          string     `gorm:"column:email;size:254" json:"email,omitempty"`
	Phone          string     `gorm:"column:phone;size:32" json:"phone,omitempty"`
	Nationality    string     `gorm:"column:nationality;size:64" json:"nationality,omitempty"`
	Certifications string     `gorm:"column:certifications" json:"certifications,omitempty"`
	Status         CrewStatus `gorm:"column:status;size:16;not null;default:active" json:"status"`
}

func (CrewMember) TableName() string {
	return "crew_members"
}
