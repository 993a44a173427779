package models

type Pincode struct {
	ID        uint     `json:"id" gorm:"primarykey"`
	Pincode   string   `json:"pincode" gorm:"index;not null"`
	State     string   `json:"state"`
	City      string   `json:"city"`
	Locations []string `json:"locations" gorm:"serializer:json;type:jsonb"`
}
