package models

import "strings"

// Choice is a (value, label) pair of a closed enumeration
type Choice struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

type Cuisine int

const (
	CuisineSouthIndian Cuisine = iota + 1
	CuisineNorthIndian
	CuisineChinese
)

var cuisineLabels = map[Cuisine]string{
	CuisineSouthIndian: "South Indian",
	CuisineNorthIndian: "North Indian",
	CuisineChinese:     "Chinese",
}

func (c Cuisine) Label() string { return cuisineLabels[c] }
func (c Cuisine) Valid() bool   { _, ok := cuisineLabels[c]; return ok }

type FoodType int

const (
	FoodTypeVeg FoodType = iota + 1
	FoodTypeNonVeg
	FoodTypeVegan
)

var foodTypeLabels = map[FoodType]string{
	FoodTypeVeg:    "Veg",
	FoodTypeNonVeg: "Non-Veg",
	FoodTypeVegan:  "Vegan",
}

func (f FoodType) Label() string { return foodTypeLabels[f] }
func (f FoodType) Valid() bool   { _, ok := foodTypeLabels[f]; return ok }

type Difficulty int

const (
	DifficultyEasy Difficulty = iota + 1
	DifficultyMedium
	DifficultyHard
)

var difficultyLabels = map[Difficulty]string{
	DifficultyEasy:   "Easy",
	DifficultyMedium: "Medium",
	DifficultyHard:   "Hard",
}

func (d Difficulty) Label() string { return difficultyLabels[d] }
func (d Difficulty) Valid() bool   { _, ok := difficultyLabels[d]; return ok }

type Unit int

const (
	UnitGrams Unit = iota + 1
	UnitNumber
	UnitTeaspoon
	UnitTablespoon
	UnitLitres
	UnitCup
)

var unitLabels = map[Unit]string{
	UnitGrams:      "gms",
	UnitNumber:     "number",
	UnitTeaspoon:   "tsp",
	UnitTablespoon: "tbsp",
	UnitLitres:     "litres",
	UnitCup:        "cup",
}

func (u Unit) Label() string { return unitLabels[u] }
func (u Unit) Valid() bool   { _, ok := unitLabels[u]; return ok }

// Choice lists in value order, as rendered by the filter and edit forms
var (
	CuisineChoices = []Choice{
		{int(CuisineSouthIndian), "South Indian"},
		{int(CuisineNorthIndian), "North Indian"},
		{int(CuisineChinese), "Chinese"},
	}
	FoodTypeChoices = []Choice{
		{int(FoodTypeVeg), "Veg"},
		{int(FoodTypeNonVeg), "Non-Veg"},
		{int(FoodTypeVegan), "Vegan"},
	}
	DifficultyChoices = []Choice{
		{int(DifficultyEasy), "Easy"},
		{int(DifficultyMedium), "Medium"},
		{int(DifficultyHard), "Hard"},
	}
	UnitChoices = []Choice{
		{int(UnitGrams), "gms"},
		{int(UnitNumber), "number"},
		{int(UnitTeaspoon), "tsp"},
		{int(UnitTablespoon), "tbsp"},
		{int(UnitLitres), "litres"},
		{int(UnitCup), "cup"},
	}
)

// CuisinesMatching returns the cuisines whose label contains term, case-insensitively
func CuisinesMatching(term string) []Cuisine {
	term = strings.ToLower(term)
	var out []Cuisine
	for _, choice := range CuisineChoices {
		if strings.Contains(strings.ToLower(choice.Label), term) {
			out = append(out, Cuisine(choice.Value))
		}
	}
	return out
}
