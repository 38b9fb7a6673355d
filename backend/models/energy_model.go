package models

import (
	"math"
	"strings"
	"time"
)

type EnergyUnit string

const EnergyUnitKWh EnergyUnit = "kwh"

func ParseEnergyUnit(s string) (EnergyUnit, error) {
	if EnergyUnit(strings.ToLower(strings.TrimSpace(s))) != EnergyUnitKWh {
		return "", ErrInvalidUnit
	}
	return EnergyUnitKWh, nil
}

type EnergyLog struct {
	ID        int64      `db:"id" json:"id"`
	UserID    int64      `db:"user_id" json:"-"`
	Qty       float64    `db:"qty" json:"qty"`
	Unit      EnergyUnit `db:"unit" json:"unit"`
	Date      Date       `db:"date" json:"date"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

type EnergyLogInput struct {
	Qty  float64 `json:"qty"`
	Unit string  `json:"unit"`
	Date string  `json:"date"`
}

func (in EnergyLogInput) Validate() (EnergyLog, map[string]string) {
	problems := map[string]string{}

	if in.Qty <= 0 || math.IsNaN(in.Qty) || math.IsInf(in.Qty, 0) {
		problems["qty"] = ErrInvalidQuantity.Error()
	}
	unit, err := ParseEnergyUnit(in.Unit)
	if err != nil {
		problems["unit"] = "unit must be kwh"
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		problems["date"] = err.Error()
	}
	if len(problems) > 0 {
		return EnergyLog{}, problems
	}
	return EnergyLog{Qty: in.Qty, Unit: unit, Date: date}, nil
}
