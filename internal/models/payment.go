package models

import "RentReport/internal/normalize"

const DefaultPaymentType = "Rent Payment"

type Payment struct {
	ID             normalize.Text   `bson:"_id" json:"id"`
	LandlordID     normalize.Text   `bson:"landlordId" json:"landlord_id"`
	UnitID         normalize.Text   `bson:"unitId" json:"unit_id"`
	ActualRentPaid normalize.Amount `bson:"actualRentPaid" json:"actual_rent_paid"`
	PaymentDate    normalize.Date   `bson:"paymentDate" json:"-"`
	PaymentType    normalize.Text   `bson:"paymentType" json:"payment_type"`
	RentalPeriod   normalize.Text   `bson:"rentalPeriod" json:"rental_period"`
	Comments       normalize.Text   `bson:"comments" json:"comments"`
}

// Type returns the payment type, defaulting to a rent payment.
func (p Payment) Type() string {
	if p.PaymentType == "" {
		return DefaultPaymentType
	}
	return p.PaymentType.String()
}
