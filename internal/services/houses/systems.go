package houses

import (
	"fmt"
	"strings"

	"Astrolabe/internal/domain/models"
)

// DefaultSystem is used when no house system is requested.
const DefaultSystem = models.Placidus

// allowed lists the house systems a request may ask for.
var allowed = map[models.HouseSystem]string{
	models.Placidus:      "Placidus",
	models.Koch:          "Koch",
	models.Equal:         "Equal",
	models.WholeSign:     "Whole Sign",
	models.Regiomontanus: "Regiomontanus",
	models.Campanus:      "Campanus",
	models.Alcabitius:    "Alcabitius",
	models.Horizontal:    "Horizontal",
	models.Morinus:       "Morinus",
	models.Topocentric:   "Topocentric",
	models.Porphyry:      "Porphyry",
}

// ParseSystem validates a house-system code. Empty input yields DefaultSystem.
func ParseSystem(code string) (models.HouseSystem, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultSystem, nil
	}
	hs := models.HouseSystem(code)
	if _, ok := allowed[hs]; !ok {
		return "", models.NewCoreError(models.CodeInvalidHouseSystem, "houses_system",
			fmt.Sprintf("houses_system %q is not supported", code)).WithParam("code", code)
	}
	return hs, nil
}

// SystemName returns the display name of a house system code.
func SystemName(hs models.HouseSystem) string {
	if name, ok := allowed[hs]; ok {
		return name
	}
	return string(hs)
}
