package view

import (
	"context"
	"fmt"

	"github.com/fastygo/degreeprogram/domain"
)

// RelatedLookup resolves related programs in one language. Ids that do not
// exist are left out of the result; only infrastructure failures are errors.
type RelatedLookup interface {
	FindRelated(ctx context.Context, ids []int, languageCode string) ([]RelatedDegreeProgram, error)
}

// Projector flattens raw views into single-language views.
type Projector struct {
	related RelatedLookup
	baseURL string
}

// NewProjector creates a projector. baseURL prefixes program slugs in links.
func NewProjector(related RelatedLookup, baseURL string) *Projector {
	return &Projector{related: related, baseURL: baseURL}
}

// Project builds the languageCode view of raw. Filtering is the caller's job.
func (p *Projector) Project(ctx context.Context, raw Raw, languageCode string) (*Translated, error) {
	combinations, err := p.relatedPrograms(ctx, raw.Combinations, languageCode)
	if err != nil {
		return nil, fmt.Errorf("resolve combinations of %d: %w", raw.ID, err)
	}
	limitedCombinations, err := p.relatedPrograms(ctx, raw.LimitedCombinations, languageCode)
	if err != nil {
		return nil, fmt.Errorf("resolve limited combinations of %d: %w", raw.ID, err)
	}

	slug := raw.Slug.AsString(languageCode)
	admissionRequirement := raw.AdmissionRequirements.RequirementsForDegree(raw.Degree)

	return &Translated{
		ID:               raw.ID,
		Link:             ProgramURL(p.baseURL, slug),
		Slug:             slug,
		Lang:             languageCode,
		FeaturedImage:    raw.FeaturedImage,
		TeaserImage:      raw.TeaserImage,
		Title:            raw.Title.AsString(languageCode),
		Subtitle:         raw.Subtitle.AsString(languageCode),
		StandardDuration: raw.StandardDuration,
		FeeRequired:      raw.FeeRequired,
		Start:            raw.Start.AsStrings(languageCode),
		NumberOfStudents: raw.NumberOfStudents.AsString(),
		TeachingLanguage: raw.TeachingLanguage.AsString(languageCode),
		Attributes:       raw.Attributes.AsStrings(languageCode),
		Degree:           DegreeTranslatedFromDegree(raw.Degree, languageCode),
		Faculty:          LinksFromBilingual(raw.Faculty, languageCode),
		Location:         raw.Location.AsStrings(languageCode),
		SubjectGroups:    raw.SubjectGroups.AsStrings(languageCode),
		Videos:           append([]string{}, raw.Videos...),
		MetaDescription:  raw.MetaDescription.AsString(languageCode),
		Content:          ContentTranslatedFromContent(raw.Content.WithDefaultTitles(), languageCode),

		AdmissionRequirementLink:                     LinkFromBilingual(admissionRequirement, languageCode),
		AdmissionRequirementsList:                    admissionRequirementsList(raw.AdmissionRequirements, languageCode),
		ContentRelatedMasterRequirements:             raw.ContentRelatedMasterRequirements.AsString(languageCode),
		ApplicationDeadlineWinterSemester:            raw.ApplicationDeadlineWinterSemester,
		ApplicationDeadlineSummerSemester:            raw.ApplicationDeadlineSummerSemester,
		DetailsAndNotes:                              raw.DetailsAndNotes.AsString(languageCode),
		LanguageSkills:                               raw.LanguageSkills.AsString(languageCode),
		LanguageSkillsHumanitiesFaculty:              raw.LanguageSkillsHumanitiesFaculty,
		GermanLanguageSkillsForInternationalStudents: LinkFromBilingual(raw.GermanLanguageSkillsForInternationalStudents, languageCode),

		StartOfSemester:                 LinkFromBilingual(raw.StartOfSemester, languageCode),
		SemesterDates:                   LinkFromBilingual(raw.SemesterDates, languageCode),
		ExaminationsOffice:              LinkFromBilingual(raw.ExaminationsOffice, languageCode),
		ExaminationRegulations:          raw.ExaminationRegulations,
		ModuleHandbook:                  raw.ModuleHandbook,
		URL:                             raw.URL.AsString(languageCode),
		Department:                      raw.Department.AsString(languageCode),
		StudentAdvice:                   LinkFromBilingual(raw.StudentAdvice, languageCode),
		SubjectSpecificAdvice:           LinkFromBilingual(raw.SubjectSpecificAdvice, languageCode),
		ServiceCenters:                  LinkFromBilingual(raw.ServiceCenters, languageCode),
		InfoBrochure:                    raw.InfoBrochure,
		SemesterFee:                     LinkFromBilingual(raw.SemesterFee, languageCode),
		DegreeProgramFees:               raw.DegreeProgramFees.AsString(languageCode),
		AbroadOpportunities:             LinkFromBilingual(raw.AbroadOpportunities, languageCode),
		Keywords:                        raw.Keywords.AsStrings(languageCode),
		AreaOfStudy:                     LinksFromBilingual(raw.AreaOfStudy, languageCode),
		Combinations:                    combinations,
		LimitedCombinations:             limitedCombinations,
		NotesForInternationalApplicants: LinkFromBilingual(raw.NotesForInternationalApplicants, languageCode),
		StudentInitiatives:              LinkFromBilingual(raw.StudentInitiatives, languageCode),
		ApplyNowLink:                    LinkFromBilingual(raw.ApplyNowLink, languageCode),
		EntryText:                       raw.EntryText.AsString(languageCode),
	}, nil
}

func (p *Projector) relatedPrograms(ctx context.Context, ids []int, languageCode string) ([]RelatedDegreeProgram, error) {
	if len(ids) == 0 || p.related == nil {
		return []RelatedDegreeProgram{}, nil
	}
	related, err := p.related.FindRelated(ctx, ids, languageCode)
	if err != nil {
		return nil, err
	}
	if related == nil {
		related = []RelatedDegreeProgram{}
	}
	return related, nil
}

// admissionRequirementsList lists the names of the non-empty requirement slots.
func admissionRequirementsList(requirements domain.AdmissionRequirements, languageCode string) []string {
	out := []string{}
	for _, slot := range requirements.Slots() {
		if name := slot.Name.AsString(languageCode); name != "" {
			out = append(out, name)
		}
	}
	return out
}
