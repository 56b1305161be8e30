package listing

// Category pairs a stored category name with the emoji label shown on buttons.
type Category struct {
	Label string
	Name  string
}

// Categories is the closed set of listing categories. Button callbacks carry
// the index into this slice, so the order is part of the interface.
var Categories = []Category{
	{"🔨 Repair & construction", "Repair & construction"},
	{"🧹 Cleaning & household help", "Cleaning & household help"},
	{"🚚 Courier & transport", "Courier & transport"},
	{"🐾 Animal care", "Animal care"},
	{"💻 IT & digital services", "IT & digital services"},
	{"🎓 Education", "Education"},
	{"💅 Beauty & health", "Beauty & health"},
	{"🎉 Events & on-site help", "Events & on-site help"},
	{"❄️/🌿 Seasonal & one-off work", "Seasonal & one-off work"},
	{"📦 Other", "Other"},
}

// CategoryByIndex resolves a button index to a category name.
func CategoryByIndex(i int) (string, bool) {
	if i < 0 || i >= len(Categories) {
		return "", false
	}
	return Categories[i].Name, true
}

// ValidCategory reports whether name is one of the fixed categories.
func ValidCategory(name string) bool {
	for _, c := range Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}
