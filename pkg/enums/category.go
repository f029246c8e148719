package enums

// CategoryCode is the two-letter product category stamped on vendor
// invoice lines. Unknown codes are stored as-is; DisplayName falls back
// to the raw code so nothing is dropped at the boundary.
type CategoryCode string

const (
	CategoryProduce   CategoryCode = "PR"
	CategoryGrocery   CategoryCode = "GR"
	CategoryFrozen    CategoryCode = "FR"
	CategoryDairy     CategoryCode = "DY"
	CategoryBeverage  CategoryCode = "BV"
	CategoryCanned    CategoryCode = "CN"
	CategoryPaper     CategoryCode = "PA"
	CategoryChemical  CategoryCode = "CH"
	CategoryEquipment CategoryCode = "EQ"
	CategoryPackaging CategoryCode = "PU"
)

var categoryNames = map[CategoryCode]string{
	CategoryProduce:   "Produce",
	CategoryGrocery:   "Grocery",
	CategoryFrozen:    "Frozen",
	CategoryDairy:     "Dairy",
	CategoryBeverage:  "Beverage",
	CategoryCanned:    "Canned",
	CategoryPaper:     "Paper",
	CategoryChemical:  "Chemical/Cleaning",
	CategoryEquipment: "Equipment",
	CategoryPackaging: "Packaging/Supply",
}

// String implements fmt.Stringer.
func (c CategoryCode) String() string {
	return string(c)
}

// Known reports whether the code maps to a catalog category name.
func (c CategoryCode) Known() bool {
	_, ok := categoryNames[c]
	return ok
}

// DisplayName returns the human name for the code, or the raw code when
// the vendor introduces a category we have not seen before.
func (c CategoryCode) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}
