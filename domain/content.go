package domain

// ContentItem is one titled section of the program description.
type ContentItem struct {
	Title       BilingualString `json:"title"`
	Description BilingualString `json:"description"`
}

func NewContentItem(title, description BilingualString) ContentItem {
	return ContentItem{Title: title, Description: description}
}

// Content groups the fixed description sections ("Inhalte").
type Content struct {
	About              ContentItem `json:"about"`
	Structure          ContentItem `json:"structure"`
	Specializations    ContentItem `json:"specializations"`
	QualitiesAndSkills ContentItem `json:"qualities_and_skills"`
	WhyShouldStudy     ContentItem `json:"why_should_study"`
	CareerProspects    ContentItem `json:"career_prospects"`
	SpecialFeatures    ContentItem `json:"special_features"`
	Testimonials       ContentItem `json:"testimonials"`
}

// default section titles, used when a stored section has no title
var defaultContentTitles = map[string]BilingualString{
	"about":                {DE: "Worum geht es im Studiengang?", EN: "What is the degree program about?"},
	"structure":            {DE: "Aufbau und Struktur", EN: "Design and structure"},
	"specializations":      {DE: "Studienrichtungen und Schwerpunkte", EN: "Fields of study and specializations"},
	"qualities_and_skills": {DE: "Was sollte ich mitbringen?", EN: "Which qualities and skills do I need?"},
	"why_should_study":     {DE: "Gute Gründe für ein Studium an der FAU", EN: "Why should I study at FAU?"},
	"career_prospects":     {DE: "Welche beruflichen Perspektiven stehen mir offen?", EN: "Which career prospects are open to me?"},
	"special_features":     {DE: "Besondere Hinweise", EN: "Special features"},
	"testimonials":         {DE: "Erfahrungsberichte", EN: "Testimonials"},
}

// WithDefaultTitles fills empty section titles with the catalog defaults.
func (c Content) WithDefaultTitles() Content {
	c.each(func(key string, item *ContentItem) {
		if item.Title.IsEmpty() {
			id := item.Title.ID
			item.Title = defaultContentTitles[key]
			item.Title.ID = id
		}
	})
	return c
}

// MapDescriptions applies fn to every section description in both languages.
func (c Content) MapDescriptions(fn func(string) string) Content {
	c.each(func(_ string, item *ContentItem) {
		item.Description = item.Description.MapTranslations(fn)
	})
	return c
}

func (c *Content) each(fn func(key string, item *ContentItem)) {
	fn("about", &c.About)
	fn("structure", &c.Structure)
	fn("specializations", &c.Specializations)
	fn("qualities_and_skills", &c.QualitiesAndSkills)
	fn("why_should_study", &c.WhyShouldStudy)
	fn("career_prospects", &c.CareerProspects)
	fn("special_features", &c.SpecialFeatures)
	fn("testimonials", &c.Testimonials)
}
