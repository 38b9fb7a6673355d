package models

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrInvalidUnit     = errors.New("unit is not supported")
	ErrInvalidCategory = errors.New("category is not supported")
	ErrInvalidQuantity = errors.New("qty must be a positive number")
)

type WaterUnit string

const (
	WaterUnitLitre  WaterUnit = "litre"
	WaterUnitBucket WaterUnit = "bucket"
	WaterUnitCup    WaterUnit = "cup"
)

// litres per unit
var waterUnitFactors = map[WaterUnit]float64{
	WaterUnitLitre:  1,
	WaterUnitBucket: 19,
	WaterUnitCup:    0.236,
}

func ParseWaterUnit(s string) (WaterUnit, error) {
	u := WaterUnit(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := waterUnitFactors[u]; !ok {
		return "", ErrInvalidUnit
	}
	return u, nil
}

// ToLitres converts qty expressed in u to litres, rounded to 6 decimal places so
// that e.g. 10 cups is exactly 2.36.
func (u WaterUnit) ToLitres(qty float64) float64 {
	return math.Round(qty*waterUnitFactors[u]*1e6) / 1e6
}

type WaterCategory string

const (
	WaterCategoryBathing  WaterCategory = "bathing"
	WaterCategoryDrinking WaterCategory = "drinking"
	WaterCategoryWashing  WaterCategory = "washing"
	WaterCategoryCooking  WaterCategory = "cooking"
	WaterCategoryOther    WaterCategory = "other"
)

// WaterCategories lists every category in display order.
var WaterCategories = []WaterCategory{
	WaterCategoryBathing,
	WaterCategoryDrinking,
	WaterCategoryWashing,
	WaterCategoryCooking,
	WaterCategoryOther,
}

func ParseWaterCategory(s string) (WaterCategory, error) {
	c := WaterCategory(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range WaterCategories {
		if c == known {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

type WaterLog struct {
	ID        int64         `db:"id" json:"id"`
	UserID    int64         `db:"user_id" json:"-"`
	Qty       float64       `db:"qty" json:"qty"`
	QtyLitres float64       `db:"qty_litres" json:"qty_litres"`
	Unit      WaterUnit     `db:"unit" json:"unit"`
	Category  WaterCategory `db:"category" json:"category"`
	Date      Date          `db:"date" json:"date"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}

type WaterLogInput struct {
	Qty      float64 `json:"qty"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
	Date     string  `json:"date"`
}

// Validate checks the raw input and builds the log row to persist, litre value included.
// Owner and generated columns are left for the store to fill.
func (in WaterLogInput) Validate() (WaterLog, map[string]string) {
	problems := map[string]string{}
	entry := WaterLog{Qty: in.Qty}

	if in.Qty <= 0 || math.IsNaN(in.Qty) || math.IsInf(in.Qty, 0) {
		problems["qty"] = ErrInvalidQuantity.Error()
	}
	unit, err := ParseWaterUnit(in.Unit)
	if err != nil {
		problems["unit"] = "unit must be one of litre, bucket, cup"
	}
	category, err := ParseWaterCategory(in.Category)
	if err != nil {
		problems["category"] = "category must be one of bathing, drinking, washing, cooking, other"
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		problems["date"] = err.Error()
	}
	if len(problems) > 0 {
		return WaterLog{}, problems
	}

	entry.Unit = unit
	entry.Category = category
	entry.Date = date
	entry.QtyLitres = unit.ToLitres(in.Qty)
	return entry, nil
}
