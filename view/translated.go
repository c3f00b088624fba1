package view

import (
	"encoding/json"
	"maps"

	"github.com/fastygo/degreeprogram/domain"
)

// ContentItemTranslated is one description section in a single language.
type ContentItemTranslated struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ContentTranslated holds the description sections in a single language.
type ContentTranslated struct {
	About              ContentItemTranslated `json:"about"`
	Structure          ContentItemTranslated `json:"structure"`
	Specializations    ContentItemTranslated `json:"specializations"`
	QualitiesAndSkills ContentItemTranslated `json:"qualities_and_skills"`
	WhyShouldStudy     ContentItemTranslated `json:"why_should_study"`
	CareerProspects    ContentItemTranslated `json:"career_prospects"`
	SpecialFeatures    ContentItemTranslated `json:"special_features"`
	Testimonials       ContentItemTranslated `json:"testimonials"`
}

func contentItemTranslated(item domain.ContentItem, languageCode string) ContentItemTranslated {
	return ContentItemTranslated{
		Title:       item.Title.AsString(languageCode),
		Description: item.Description.AsString(languageCode),
	}
}

func ContentTranslatedFromContent(content domain.Content, languageCode string) ContentTranslated {
	return ContentTranslated{
		About:              contentItemTranslated(content.About, languageCode),
		Structure:          contentItemTranslated(content.Structure, languageCode),
		Specializations:    contentItemTranslated(content.Specializations, languageCode),
		QualitiesAndSkills: contentItemTranslated(content.QualitiesAndSkills, languageCode),
		WhyShouldStudy:     contentItemTranslated(content.WhyShouldStudy, languageCode),
		CareerProspects:    contentItemTranslated(content.CareerProspects, languageCode),
		SpecialFeatures:    contentItemTranslated(content.SpecialFeatures, languageCode),
		Testimonials:       contentItemTranslated(content.Testimonials, languageCode),
	}
}

// Translated is a degree program flattened to one language, plus the
// same program in the other languages keyed by language code.
// A view never holds a translation for its own language.
type Translated struct {
	ID               int               `json:"id"`
	Link             string            `json:"link"`
	Slug             string            `json:"slug"`
	Lang             string            `json:"lang"`
	FeaturedImage    domain.Image      `json:"featured_image"`
	TeaserImage      domain.Image      `json:"teaser_image"`
	Title            string            `json:"title"`
	Subtitle         string            `json:"subtitle"`
	StandardDuration string            `json:"standard_duration"`
	FeeRequired      bool              `json:"fee_required"`
	Start            []string          `json:"start"`
	NumberOfStudents string            `json:"number_of_students"`
	TeachingLanguage string            `json:"teaching_language"`
	Attributes       []string          `json:"attributes"`
	Degree           DegreeTranslated  `json:"degree"`
	Faculty          []Link            `json:"faculty"`
	Location         []string          `json:"location"`
	SubjectGroups    []string          `json:"subject_groups"`
	Videos           []string          `json:"videos"`
	MetaDescription  string            `json:"meta_description"`
	Content          ContentTranslated `json:"content"`

	AdmissionRequirementLink                     Link     `json:"admission_requirement_link"`
	AdmissionRequirementsList                    []string `json:"admission_requirements_list"`
	ContentRelatedMasterRequirements             string   `json:"content_related_master_requirements"`
	ApplicationDeadlineWinterSemester            string   `json:"application_deadline_winter_semester"`
	ApplicationDeadlineSummerSemester            string   `json:"application_deadline_summer_semester"`
	DetailsAndNotes                              string   `json:"details_and_notes"`
	LanguageSkills                               string   `json:"language_skills"`
	LanguageSkillsHumanitiesFaculty              string   `json:"language_skills_humanities_faculty"`
	GermanLanguageSkillsForInternationalStudents Link     `json:"german_language_skills_for_international_students"`

	StartOfSemester                 Link                   `json:"start_of_semester"`
	SemesterDates                   Link                   `json:"semester_dates"`
	ExaminationsOffice              Link                   `json:"examinations_office"`
	ExaminationRegulations          string                 `json:"examination_regulations"`
	ModuleHandbook                  string                 `json:"module_handbook"`
	URL                             string                 `json:"url"`
	Department                      string                 `json:"department"`
	StudentAdvice                   Link                   `json:"student_advice"`
	SubjectSpecificAdvice           Link                   `json:"subject_specific_advice"`
	ServiceCenters                  Link                   `json:"service_centers"`
	InfoBrochure                    string                 `json:"info_brochure"`
	SemesterFee                     Link                   `json:"semester_fee"`
	DegreeProgramFees               string                 `json:"degree_program_fees"`
	AbroadOpportunities             Link                   `json:"abroad_opportunities"`
	Keywords                        []string               `json:"keywords"`
	AreaOfStudy                     []Link                 `json:"area_of_study"`
	Combinations                    []RelatedDegreeProgram `json:"combinations"`
	LimitedCombinations             []RelatedDegreeProgram `json:"limited_combinations"`
	NotesForInternationalApplicants Link                   `json:"notes_for_international_applicants"`
	StudentInitiatives              Link                   `json:"student_initiatives"`
	ApplyNowLink                    Link                   `json:"apply_now_link"`
	EntryText                       string                 `json:"entry_text"`

	translations map[string]*Translated
}

// WithTranslation returns a copy of t with other registered under languageCode.
// other is shared, not copied. Registering t's own language is a no-op.
func (t *Translated) WithTranslation(other *Translated, languageCode string) *Translated {
	clone := *t
	clone.translations = maps.Clone(t.translations)
	if clone.translations == nil {
		clone.translations = map[string]*Translated{}
	}
	if languageCode != t.Lang {
		clone.translations[languageCode] = other
	}
	return &clone
}

// WithBaseLang returns the view in languageCode with t attached as one of its
// translations. It fails with domain.ErrMissingTranslation when no such
// translation is registered. Neither t nor the stored sibling is modified.
func (t *Translated) WithBaseLang(languageCode string) (*Translated, error) {
	if languageCode == t.Lang {
		return t, nil
	}
	sibling, ok := t.translations[languageCode]
	if !ok || sibling == nil {
		return nil, domain.ErrMissingTranslation
	}

	self := *t
	self.translations = map[string]*Translated{}

	main := *sibling
	main.translations = make(map[string]*Translated, len(t.translations))
	for lang, view := range sibling.translations {
		main.translations[lang] = view
	}
	for lang, view := range t.translations {
		if _, exists := main.translations[lang]; !exists {
			main.translations[lang] = view
		}
	}
	delete(main.translations, main.Lang)
	main.translations[t.Lang] = &self
	return &main, nil
}

// Translation returns the registered view for languageCode.
func (t *Translated) Translation(languageCode string) (*Translated, bool) {
	view, ok := t.translations[languageCode]
	return view, ok
}

// Translations returns a copy of the translation map.
func (t *Translated) Translations() map[string]*Translated {
	out := maps.Clone(t.translations)
	if out == nil {
		out = map[string]*Translated{}
	}
	return out
}

// translatedFields has the fields of Translated without its methods.
type translatedFields Translated

type translatedDocument struct {
	translatedFields
	Translations map[string]nestedTranslation `json:"translations"`
}

// nestedTranslation hides the id of an embedded translation.
type nestedTranslation struct {
	translatedFields
	ID *int `json:"id,omitempty"`
}

// MarshalJSON writes id and translations at the top level only.
func (t *Translated) MarshalJSON() ([]byte, error) {
	doc := translatedDocument{
		translatedFields: translatedFields(*t),
		Translations:     make(map[string]nestedTranslation, len(t.translations)),
	}
	for lang, view := range t.translations {
		if view == nil {
			continue
		}
		doc.Translations[lang] = nestedTranslation{translatedFields: translatedFields(*view)}
	}
	return json.Marshal(doc)
}

type translatedInput struct {
	translatedFields
	Translations map[string]translatedFields `json:"translations"`
}

// TranslatedFromJSON restores a view written by MarshalJSON. Each translation
// gets the id of the top level view.
func TranslatedFromJSON(data []byte) (*Translated, error) {
	var in translatedInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	main := Translated(in.translatedFields)
	view := &main
	for lang, fields := range in.Translations {
		translation := Translated(fields)
		translation.ID = main.ID
		view = view.WithTranslation(&translation, lang)
	}
	return view, nil
}

func (t *Translated) UnmarshalJSON(data []byte) error {
	view, err := TranslatedFromJSON(data)
	if err != nil {
		return err
	}
	*t = *view
	return nil
}
