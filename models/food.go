package models

import (
	"math"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Nutrients holds the full nutrient field set. On Food the values are per
// 100g; on FoodLog (embedded with the total_ prefix) they are scaled by the
// consumed quantity.
type Nutrients struct {
	// 기본 영양소
	Calories float64 `gorm:"column:calories" json:"calories"` // kcal
	Protein  float64 `gorm:"column:protein" json:"protein"`   // g
	Carbs    float64 `gorm:"column:carbs" json:"carbs"`       // g
	Fat      float64 `gorm:"column:fat" json:"fat"`           // g
	Fiber    float64 `gorm:"column:fiber" json:"fiber"`       // g
	Sugar    float64 `gorm:"column:sugar" json:"sugar"`       // g

	// 미네랄
	Sodium     float64 `gorm:"column:sodium" json:"sodium"`         // mg
	Potassium  float64 `gorm:"column:potassium" json:"potassium"`   // mg
	Calcium    float64 `gorm:"column:calcium" json:"calcium"`       // mg
	Iron       float64 `gorm:"column:iron" json:"iron"`             // mg
	Magnesium  float64 `gorm:"column:magnesium" json:"magnesium"`   // mg
	Phosphorus float64 `gorm:"column:phosphorus" json:"phosphorus"` // mg
	Zinc       float64 `gorm:"column:zinc" json:"zinc"`             // mg
	Copper     float64 `gorm:"column:copper" json:"copper"`         // mg
	Manganese  float64 `gorm:"column:manganese" json:"manganese"`   // mg
	Selenium   float64 `gorm:"column:selenium" json:"selenium"`     // μg

	// 비타민
	VitaminA   float64 `gorm:"column:vitamin_a" json:"vitamin_a"`     // μg
	VitaminB1  float64 `gorm:"column:vitamin_b1" json:"vitamin_b1"`   // mg
	VitaminB2  float64 `gorm:"column:vitamin_b2" json:"vitamin_b2"`   // mg
	VitaminB3  float64 `gorm:"column:vitamin_b3" json:"vitamin_b3"`   // mg
	VitaminB6  float64 `gorm:"column:vitamin_b6" json:"vitamin_b6"`   // mg
	VitaminB12 float64 `gorm:"column:vitamin_b12" json:"vitamin_b12"` // μg
	VitaminC   float64 `gorm:"column:vitamin_c" json:"vitamin_c"`     // mg
	VitaminD   float64 `gorm:"column:vitamin_d" json:"vitamin_d"`     // μg
	VitaminE   float64 `gorm:"column:vitamin_e" json:"vitamin_e"`     // mg
	VitaminK   float64 `gorm:"column:vitamin_k" json:"vitamin_k"`     // μg
	Folate     float64 `gorm:"column:folate" json:"folate"`           // μg
	Choline    float64 `gorm:"column:choline" json:"choline"`         // mg

	// 추가 비타민
	BetaCarotene float64 `gorm:"column:beta_carotene" json:"beta_carotene"` // μg
	Niacin       float64 `gorm:"column:niacin" json:"niacin"`               // mg
	VitaminD2    float64 `gorm:"column:vitamin_d2" json:"vitamin_d2"`       // μg
	VitaminD3    float64 `gorm:"column:vitamin_d3" json:"vitamin_d3"`       // μg
	VitaminK1    float64 `gorm:"column:vitamin_k1" json:"vitamin_k1"`       // μg
	VitaminK2    float64 `gorm:"column:vitamin_k2" json:"vitamin_k2"`       // μg

	// 추가 미네랄
	Iodine     float64 `gorm:"column:iodine" json:"iodine"`         // μg
	Fluorine   float64 `gorm:"column:fluorine" json:"fluorine"`     // mg
	Chromium   float64 `gorm:"column:chromium" json:"chromium"`     // μg
	Molybdenum float64 `gorm:"column:molybdenum" json:"molybdenum"` // μg
	Chlorine   float64 `gorm:"column:chlorine" json:"chlorine"`     // mg

	// 기타 영양소
	Cholesterol        float64 `gorm:"column:cholesterol" json:"cholesterol"`                 // mg
	SaturatedFat       float64 `gorm:"column:saturated_fat" json:"saturated_fat"`             // g
	MonounsaturatedFat float64 `gorm:"column:monounsaturated_fat" json:"monounsaturated_fat"` // g
	PolyunsaturatedFat float64 `gorm:"column:polyunsaturated_fat" json:"polyunsaturated_fat"` // g
	Omega3             float64 `gorm:"column:omega3" json:"omega3"`                           // g
	Omega6             float64 `gorm:"column:omega6" json:"omega6"`                           // g
	TransFat           float64 `gorm:"column:trans_fat" json:"trans_fat"`                     // g
	Caffeine           float64 `gorm:"column:caffeine" json:"caffeine"`                       // mg
	Alcohol            float64 `gorm:"column:alcohol" json:"alcohol"`                         // g
	Water              float64 `gorm:"column:water" json:"water"`                             // g
	Ash                float64 `gorm:"column:ash" json:"ash"`                                 // g
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Scaled returns the nutrient totals for a consumed mass in grams. The
// receiver holds per-100g values, so every field becomes
// round(value/100 * quantity, 1).
func (n Nutrients) Scaled(quantityGrams float64) Nutrients {
	q := quantityGrams / 100.0
	return Nutrients{
		Calories: round1(n.Calories * q),
		Protein:  round1(n.Protein * q),
		Carbs:    round1(n.Carbs * q),
		Fat:      round1(n.Fat * q),
		Fiber:    round1(n.Fiber * q),
		Sugar:    round1(n.Sugar * q),

		Sodium:     round1(n.Sodium * q),
		Potassium:  round1(n.Potassium * q),
		Calcium:    round1(n.Calcium * q),
		Iron:       round1(n.Iron * q),
		Magnesium:  round1(n.Magnesium * q),
		Phosphorus: round1(n.Phosphorus * q),
		Zinc:       round1(n.Zinc * q),
		Copper:     round1(n.Copper * q),
		Manganese:  round1(n.Manganese * q),
		Selenium:   round1(n.Selenium * q),

		VitaminA:   round1(n.VitaminA * q),
		VitaminB1:  round1(n.VitaminB1 * q),
		VitaminB2:  round1(n.VitaminB2 * q),
		VitaminB3:  round1(n.VitaminB3 * q),
		VitaminB6:  round1(n.VitaminB6 * q),
		VitaminB12: round1(n.VitaminB12 * q),
		VitaminC:   round1(n.VitaminC * q),
		VitaminD:   round1(n.VitaminD * q),
		VitaminE:   round1(n.VitaminE * q),
		VitaminK:   round1(n.VitaminK * q),
		Folate:     round1(n.Folate * q),
		Choline:    round1(n.Choline * q),

		BetaCarotene: round1(n.BetaCarotene * q),
		Niacin:       round1(n.Niacin * q),
		VitaminD2:    round1(n.VitaminD2 * q),
		VitaminD3:    round1(n.VitaminD3 * q),
		VitaminK1:    round1(n.VitaminK1 * q),
		VitaminK2:    round1(n.VitaminK2 * q),

		Iodine:     round1(n.Iodine * q),
		Fluorine:   round1(n.Fluorine * q),
		Chromium:   round1(n.Chromium * q),
		Molybdenum: round1(n.Molybdenum * q),
		Chlorine:   round1(n.Chlorine * q),

		Cholesterol:        round1(n.Cholesterol * q),
		SaturatedFat:       round1(n.SaturatedFat * q),
		MonounsaturatedFat: round1(n.MonounsaturatedFat * q),
		PolyunsaturatedFat: round1(n.PolyunsaturatedFat * q),
		Omega3:             round1(n.Omega3 * q),
		Omega6:             round1(n.Omega6 * q),
		TransFat:           round1(n.TransFat * q),
		Caffeine:           round1(n.Caffeine * q),
		Alcohol:            round1(n.Alcohol * q),
		Water:              round1(n.Water * q),
		Ash:                round1(n.Ash * q),
	}
}

// ClampNegatives floors every nutrient field at zero. Used on generative
// estimates, which occasionally emit negative values.
func (n *Nutrients) ClampNegatives() {
	fields := []*float64{
		&n.Calories, &n.Protein, &n.Carbs, &n.Fat, &n.Fiber, &n.Sugar,
		&n.Sodium, &n.Potassium, &n.Calcium, &n.Iron, &n.Magnesium, &n.Phosphorus,
		&n.Zinc, &n.Copper, &n.Manganese, &n.Selenium,
		&n.VitaminA, &n.VitaminB1, &n.VitaminB2, &n.VitaminB3, &n.VitaminB6,
		&n.VitaminB12, &n.VitaminC, &n.VitaminD, &n.VitaminE, &n.VitaminK,
		&n.Folate, &n.Choline,
		&n.BetaCarotene, &n.Niacin, &n.VitaminD2, &n.VitaminD3, &n.VitaminK1, &n.VitaminK2,
		&n.Iodine, &n.Fluorine, &n.Chromium, &n.Molybdenum, &n.Chlorine,
		&n.Cholesterol, &n.SaturatedFat, &n.MonounsaturatedFat, &n.PolyunsaturatedFat,
		&n.Omega3, &n.Omega6, &n.TransFat, &n.Caffeine, &n.Alcohol, &n.Water, &n.Ash,
	}
	for _, f := range fields {
		if *f < 0 {
			*f = 0
		}
	}
}

// Provenance values for the catalog. SourceOfficial marks rows imported from
// the 식약처 food database; SourceLLM marks rows synthesized by the
// generative fallback.
const (
	SourceOfficial = "식품의약품안전처"
	SourceLLM      = "Gemini LLM"
	CategoryLLM    = "LLM 생성"
)

// Food is a shared catalog entry. Nutrient values are per 100g. Rows come
// from bulk import or the generative fallback; normal application flow never
// deletes them and only mutates the embedding column.
type Food struct {
	gorm.Model
	Name        string `gorm:"size:200;index;not null" json:"name"`
	NameEnglish string `gorm:"size:200" json:"name_english"`

	Nutrients `gorm:"embedded"`

	Category    string `gorm:"size:100;index" json:"category"`
	Subcategory string `gorm:"size:100" json:"subcategory"`
	FoodCode    string `gorm:"size:50;index" json:"food_code"`
	Source      string `gorm:"size:100;default:식품의약품안전처" json:"source"`

	// Embedding of Name; null until one has been computed for the row.
	Embedding datatypes.JSONSlice[float64] `json:"embedding,omitempty"`
}
