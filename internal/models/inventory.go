package models

import "RentReport/internal/normalize"

const DefaultGroupName = "Default"

type InventoryUnit struct {
	ID           normalize.Text `bson:"_id" json:"id"`
	LandlordID   normalize.Text `bson:"landlordId" json:"landlord_id"`
	UnitNumber   normalize.Text `bson:"unitNumber" json:"unit_number"`
	GroupName    normalize.Text `bson:"groupName" json:"group_name"`
	PropertyType normalize.Text `bson:"propertyType" json:"property_type"`
}

func (u InventoryUnit) Group() string {
	if u.GroupName == "" {
		return DefaultGroupName
	}
	return u.GroupName.String()
}
