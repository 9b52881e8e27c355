package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CRMRecord is one CRM entry as submitted by a client. Every field is
// optional: nil pointers are left out of the stored document entirely.
type CRMRecord struct {
	UF               *string  `bson:"uf,omitempty" json:"uf,omitempty"`
	DDD              *string  `bson:"ddd,omitempty" json:"ddd,omitempty"`
	Adabas           *string  `bson:"adabas,omitempty" json:"adabas,omitempty"`
	ResponsibleParty *string  `bson:"responsible_party,omitempty" json:"responsible_party,omitempty"`
	DeliveryDate     *string  `bson:"delivery_date,omitempty" json:"delivery_date,omitempty" validate:"omitempty,isodate"`
	CRMCode          *string  `bson:"crm_code,omitempty" json:"crm_code,omitempty"`
	SimulationCode   *string  `bson:"simulation_code,omitempty" json:"simulation_code,omitempty"`
	OrderCode        *string  `bson:"order_code,omitempty" json:"order_code,omitempty"`
	CompanyName      *string  `bson:"company_name,omitempty" json:"company_name,omitempty"`
	TaxID            *string  `bson:"tax_id,omitempty" json:"tax_id,omitempty"`
	Services         *string  `bson:"services,omitempty" json:"services,omitempty"`
	PlanName         *string  `bson:"plan_name,omitempty" json:"plan_name,omitempty"`
	PlanValue        *float64 `bson:"plan_value,omitempty" json:"plan_value,omitempty" validate:"omitempty,gte=0"`
	DeviceQuantity   *int     `bson:"device_quantity,omitempty" json:"device_quantity,omitempty" validate:"omitempty,gte=0"`
	DeviceValue      *float64 `bson:"device_value,omitempty" json:"device_value,omitempty" validate:"omitempty,gte=0"`
	AddonQuantity    *int     `bson:"addon_quantity,omitempty" json:"addon_quantity,omitempty" validate:"omitempty,gte=0"`
	AddonPackage     *string  `bson:"addon_package,omitempty" json:"addon_package,omitempty"`
	AddonValue       *float64 `bson:"addon_value,omitempty" json:"addon_value,omitempty" validate:"omitempty,gte=0"`
	CurrentValue     *float64 `bson:"current_value,omitempty" json:"current_value,omitempty" validate:"omitempty,gte=0"`
	RenewalValue     *float64 `bson:"renewal_value,omitempty" json:"renewal_value,omitempty" validate:"omitempty,gte=0"`
	MigrationFlag    *string  `bson:"migration_flag,omitempty" json:"migration_flag,omitempty"`
	SourceFlag       *string  `bson:"source_flag,omitempty" json:"source_flag,omitempty"`
	Quantity         *int     `bson:"quantity,omitempty" json:"quantity,omitempty" validate:"omitempty,gte=0"`
	Status           *string  `bson:"status,omitempty" json:"status,omitempty"`
	StatusDate       *string  `bson:"status_date,omitempty" json:"status_date,omitempty" validate:"omitempty,isodate"`
	HistoryNotes     *string  `bson:"history_notes,omitempty" json:"history_notes,omitempty"`
	Consultant       *string  `bson:"consultant,omitempty" json:"consultant,omitempty"`
	Team             *string  `bson:"team,omitempty" json:"team,omitempty"`
}

// StoredRecord is a CRMRecord as it comes back from the collection: the
// store-assigned identifier plus the timestamps stamped at write time.
// primitive.ObjectID marshals to JSON as its hex string.
type StoredRecord struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	CRMRecord `bson:",inline"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
