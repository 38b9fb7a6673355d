package models

// DailyTotal is the summed quantity of one owner's entries on a single day.
type DailyTotal struct {
	Date Date    `db:"date"`
	Qty  float64 `db:"qty"`
}

type CategoryTotal struct {
	Category WaterCategory `db:"category"`
	Qty      float64       `db:"qty"`
}

type GeneralSummary struct {
	TotalWaterUsed  float64 `json:"total_water_used"`
	TotalEnergyUsed float64 `json:"total_energy_used"`
}
