package models

import "time"

// SystemConfig is the reference-data document used by frontends to fill
// dropdowns: known consultants, statuses, services, plans and addon
// packages. The store keeps at most one of these.
type SystemConfig struct {
	Consultants   []ConsultantItem `bson:"consultants" json:"consultants" validate:"dive"`
	Statuses      []string         `bson:"statuses" json:"statuses"`
	Services      []string         `bson:"services" json:"services"`
	Plans         []PlanItem       `bson:"plans" json:"plans" validate:"dive"`
	AddonPackages []string         `bson:"addon_packages" json:"addon_packages"`
}

type ConsultantItem struct {
	Name string `bson:"name" json:"name" validate:"required"`
	Team string `bson:"team" json:"team" validate:"required"`
}

type PlanItem struct {
	Name  string  `bson:"name" json:"name" validate:"required"`
	Value float64 `bson:"value" json:"value" validate:"gte=0"`
}

type StoredConfig struct {
	SystemConfig `bson:",inline"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

// EmptyConfig is what GET /config returns before any configuration has
// been saved.
func EmptyConfig() SystemConfig {
	return SystemConfig{
		Consultants:   []ConsultantItem{},
		Statuses:      []string{},
		Services:      []string{},
		Plans:         []PlanItem{},
		AddonPackages: []string{},
	}
}
