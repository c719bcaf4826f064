package domain

import "strings"

// Category classifies a restaurant by cuisine.
type Category string

const (
	CategoryKorean   Category = "KOREAN"
	CategoryChinese  Category = "CHINESE"
	CategoryJapanese Category = "JAPANESE"
	CategoryWestern  Category = "WESTERN"
	CategoryCafe     Category = "CAFE"
	CategoryEtc      Category = "ETC"
)

var categoryNames = map[Category]string{
	CategoryKorean:   "한식",
	CategoryChinese:  "중식",
	CategoryJapanese: "일식",
	CategoryWestern:  "양식",
	CategoryCafe:     "카페",
	CategoryEtc:      "기타",
}

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{
		CategoryKorean, CategoryChinese, CategoryJapanese,
		CategoryWestern, CategoryCafe, CategoryEtc,
	}
}

// ParseCategory resolves a category code, ignoring case and surrounding space.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := categoryNames[c]; !ok {
		return "", Errorf(ErrInvalidCategory, "unknown category %q", s)
	}
	return c, nil
}

// DisplayName returns the Korean label of the category.
func (c Category) DisplayName() string {
	return categoryNames[c]
}

// CategoryInfo is the listing form of a category.
type CategoryInfo struct {
	Code        Category `json:"code"`
	DisplayName string   `json:"display_name"`
}

// CategoryInfos lists all categories with their labels.
func CategoryInfos() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(categoryNames))
	for _, c := range Categories() {
		out = append(out, CategoryInfo{Code: c, DisplayName: c.DisplayName()})
	}
	return out
}
