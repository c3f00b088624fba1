package domain

import "slices"

// Validator checks update payloads. An empty result means the payload is valid.
// Publish rules are expected to be a superset of draft rules.
type Validator interface {
	ValidateDraft(data DegreeProgramData) []string
	ValidatePublish(data DegreeProgramData) []string
}

// Sanitizer cleans free-text/HTML fields before they are stored.
type Sanitizer interface {
	SanitizeContentField(content string) string
}

// DegreeProgramData is the full field set of a degree program. It is both
// the update payload and the persisted shape of the aggregate.
type DegreeProgramData struct {
	ID               int              `json:"id"`
	Slug             BilingualString  `json:"slug"`
	FeaturedImage    Image            `json:"featured_image"`
	TeaserImage      Image            `json:"teaser_image"`
	Title            BilingualString  `json:"title"`
	Subtitle         BilingualString  `json:"subtitle"`
	StandardDuration string           `json:"standard_duration"`
	FeeRequired      bool             `json:"fee_required"`
	Start            BilingualList    `json:"start"`
	NumberOfStudents NumberOfStudents `json:"number_of_students"`
	TeachingLanguage BilingualString  `json:"teaching_language"`
	Attributes       BilingualList    `json:"attributes"`
	Degree           Degree           `json:"degree"`
	Faculty          BilingualLinks   `json:"faculty"`
	Location         BilingualList    `json:"location"`
	SubjectGroups    BilingualList    `json:"subject_groups"`
	Videos           []string         `json:"videos"`
	MetaDescription  BilingualString  `json:"meta_description"`
	Keywords         BilingualList    `json:"keywords"`
	AreaOfStudy      BilingualLinks   `json:"area_of_study"`
	EntryText        BilingualString  `json:"entry_text"`
	Content          Content          `json:"content"`

	AdmissionRequirements                        AdmissionRequirements `json:"admission_requirements"`
	ContentRelatedMasterRequirements             BilingualString       `json:"content_related_master_requirements"`
	ApplicationDeadlineWinterSemester            string                `json:"application_deadline_winter_semester"`
	ApplicationDeadlineSummerSemester            string                `json:"application_deadline_summer_semester"`
	DetailsAndNotes                              BilingualString       `json:"details_and_notes"`
	LanguageSkills                               BilingualString       `json:"language_skills"`
	LanguageSkillsHumanitiesFaculty              string                `json:"language_skills_humanities_faculty"`
	GermanLanguageSkillsForInternationalStudents BilingualLink         `json:"german_language_skills_for_international_students"`

	StartOfSemester                 BilingualLink   `json:"start_of_semester"`
	SemesterDates                   BilingualLink   `json:"semester_dates"`
	ExaminationsOffice              BilingualLink   `json:"examinations_office"`
	ExaminationRegulations          string          `json:"examination_regulations"`
	ModuleHandbook                  string          `json:"module_handbook"`
	URL                             BilingualString `json:"url"`
	Department                      BilingualString `json:"department"`
	StudentAdvice                   BilingualLink   `json:"student_advice"`
	SubjectSpecificAdvice           BilingualLink   `json:"subject_specific_advice"`
	ServiceCenters                  BilingualLink   `json:"service_centers"`
	InfoBrochure                    string          `json:"info_brochure"`
	SemesterFee                     BilingualLink   `json:"semester_fee"`
	DegreeProgramFees               BilingualString `json:"degree_program_fees"`
	AbroadOpportunities             BilingualLink   `json:"abroad_opportunities"`
	NotesForInternationalApplicants BilingualLink   `json:"notes_for_international_applicants"`
	StudentInitiatives              BilingualLink   `json:"student_initiatives"`
	ApplyNowLink                    BilingualLink   `json:"apply_now_link"`

	Combinations        DegreeProgramIDs `json:"combinations"`
	LimitedCombinations DegreeProgramIDs `json:"limited_combinations"`
	CampoKeys           CampoKeys        `json:"campo_keys"`
}

// Clone returns a copy that shares no slices or maps with d.
func (d DegreeProgramData) Clone() DegreeProgramData {
	out := d
	out.Start = slices.Clone(d.Start)
	out.Attributes = slices.Clone(d.Attributes)
	out.Faculty = slices.Clone(d.Faculty)
	out.Location = slices.Clone(d.Location)
	out.SubjectGroups = slices.Clone(d.SubjectGroups)
	out.Videos = slices.Clone(d.Videos)
	out.Keywords = slices.Clone(d.Keywords)
	out.AreaOfStudy = slices.Clone(d.AreaOfStudy)
	out.Combinations = slices.Clone(d.Combinations)
	out.LimitedCombinations = slices.Clone(d.LimitedCombinations)
	out.CampoKeys = CampoKeys{values: d.CampoKeys.AsArray()}
	return out
}

// sanitized runs every free-text/HTML field through the sanitizer.
func (d DegreeProgramData) sanitized(sanitizer Sanitizer) DegreeProgramData {
	clean := sanitizer.SanitizeContentField
	d.Content = d.Content.MapDescriptions(clean)
	d.ContentRelatedMasterRequirements = d.ContentRelatedMasterRequirements.MapTranslations(clean)
	d.DetailsAndNotes = d.DetailsAndNotes.MapTranslations(clean)
	d.LanguageSkills = d.LanguageSkills.MapTranslations(clean)
	d.EntryText = d.EntryText.MapTranslations(clean)
	d.LanguageSkillsHumanitiesFaculty = clean(d.LanguageSkillsHumanitiesFaculty)
	return d
}

// Snapshot is the full state handed to the persistence layer, including
// the relationship changesets it has to apply on both sides.
type Snapshot struct {
	DegreeProgramData
	CombinationsChangeset        IntegersListChangeset `json:"combinations_changeset"`
	LimitedCombinationsChangeset IntegersListChangeset `json:"limited_combinations_changeset"`
}

// DegreeProgram is the aggregate root. It is mutated only through UpdateDraft
// and Publish and is not safe for concurrent use.
type DegreeProgram struct {
	id   DegreeProgramID
	data DegreeProgramData

	combinationsChangeset        IntegersListChangeset
	limitedCombinationsChangeset IntegersListChangeset
	events                       []Event
}

// NewDegreeProgram builds a fully populated aggregate.
func NewDegreeProgram(data DegreeProgramData) (*DegreeProgram, error) {
	id, err := NewDegreeProgramID(data.ID)
	if err != nil {
		return nil, err
	}
	data = data.Clone()
	return &DegreeProgram{
		id:                           id,
		data:                         data,
		combinationsChangeset:        NewIntegersListChangeset(data.Combinations),
		limitedCombinationsChangeset: NewIntegersListChangeset(data.LimitedCombinations),
	}, nil
}

func (p *DegreeProgram) ID() DegreeProgramID {
	return p.id
}

// UpdateDraft validates data with the draft rule set, sanitizes it and replaces all fields.
func (p *DegreeProgram) UpdateDraft(data DegreeProgramData, validator Validator, sanitizer Sanitizer) error {
	if violations := validator.ValidateDraft(data); len(violations) > 0 {
		return NewInvalidInputError("Invalid draft degree program data.", violations...)
	}
	return p.update(data.sanitized(sanitizer))
}

// Publish validates data with the publish rule set, sanitizes it and replaces all fields.
func (p *DegreeProgram) Publish(data DegreeProgramData, validator Validator, sanitizer Sanitizer) error {
	if violations := validator.ValidatePublish(data); len(violations) > 0 {
		return NewInvalidInputError("Invalid publish degree program data.", violations...)
	}
	return p.update(data.sanitized(sanitizer))
}

func (p *DegreeProgram) update(data DegreeProgramData) error {
	if data.ID != p.id.Int() {
		return ErrIdentityMismatch
	}

	data = data.Clone()
	p.data = data
	p.combinationsChangeset = p.combinationsChangeset.ApplyChanges(data.Combinations)
	p.limitedCombinationsChangeset = p.limitedCombinationsChangeset.ApplyChanges(data.LimitedCombinations)
	p.events = append(p.events, DegreeProgramUpdated{ID: p.id.Int()})
	return nil
}

// AsData returns a copy of the current field set.
func (p *DegreeProgram) AsData() DegreeProgramData {
	return p.data.Clone()
}

// Snapshot returns the current field set together with both changesets.
func (p *DegreeProgram) Snapshot() Snapshot {
	return Snapshot{
		DegreeProgramData:            p.data.Clone(),
		CombinationsChangeset:        p.combinationsChangeset,
		LimitedCombinationsChangeset: p.limitedCombinationsChangeset,
	}
}

// ReleaseEvents returns the recorded events. The caller owns the side
// effects and must call ClearEvents once they were handled.
func (p *DegreeProgram) ReleaseEvents() []Event {
	return slices.Clone(p.events)
}

func (p *DegreeProgram) ClearEvents() {
	p.events = nil
}
