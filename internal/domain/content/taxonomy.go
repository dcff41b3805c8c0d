package content

type Category string

const (
	CategoryTraining    Category = "training"
	CategoryDualLife    Category = "dual-life"
	CategoryUnderground Category = "underground"
)

var Categories = []Category{CategoryTraining, CategoryDualLife, CategoryUnderground}

func (c Category) Valid() bool {
	switch c {
	case CategoryTraining, CategoryDualLife, CategoryUnderground:
		return true
	}
	return false
}

func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}

type Locale string

const (
	LocaleEN Locale = "en"
	LocaleES Locale = "es"
)

var Locales = []Locale{LocaleEN, LocaleES}

func (l Locale) Valid() bool {
	return l == LocaleEN || l == LocaleES
}

func ParseLocale(s string) (Locale, bool) {
	l := Locale(s)
	return l, l.Valid()
}
