package models

import "RentReport/internal/normalize"

type Lease struct {
	ID           normalize.Text   `bson:"_id" json:"id"`
	LandlordID   normalize.Text   `bson:"landlordId" json:"landlord_id"`
	UnitID       normalize.Text   `bson:"unitId" json:"unit_id"`
	TenantName   normalize.Text   `bson:"tenantName" json:"tenant_name"`
	RentAmount   normalize.Amount `bson:"rentAmount" json:"rent_amount"`
	IsActive     normalize.Flag   `bson:"isActive" json:"-"`
	CreatedAt    normalize.Date   `bson:"createdAt" json:"-"`
	LeaseEndDate normalize.Date   `bson:"leaseEndDate" json:"-"`
}

// Active reports whether the lease has not been explicitly deactivated.
// A missing or unreadable flag counts as active.
func (l Lease) Active() bool {
	active, ok := l.IsActive.Get()
	return !ok || active
}
