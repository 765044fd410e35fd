package entity

// Category is the contract category a proposal is filed under
type Category string

const (
	CategoryStandardPurchase Category = "standard-purchase"
	CategoryAmendment        Category = "amendment"
	CategoryExtension        Category = "extension"
	CategoryService          Category = "service"
	CategoryFreeform         Category = "freeform"
	CategoryOther            Category = "other"
)

var validCategories = map[Category]bool{
	CategoryStandardPurchase: true,
	CategoryAmendment:        true,
	CategoryExtension:        true,
	CategoryService:          true,
	CategoryFreeform:         true,
	CategoryOther:            true,
}

// IsValid returns true if the category is one of the defined constants
func (c Category) IsValid() bool {
	return validCategories[c]
}

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// ParseCategory converts raw input into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", ErrInvalidCategory
	}
	return c, nil
}
