package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	playground "github.com/go-playground/validator/v10"

	"github.com/fastygo/degreeprogram/domain"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type bilingualInput struct {
	DE string `json:"de"`
	EN string `json:"en"`
}

type slugInput struct {
	DE string `json:"de" validate:"omitempty,slug"`
	EN string `json:"en" validate:"omitempty,slug"`
}

type urlInput struct {
	DE string `json:"de" validate:"omitempty,url"`
	EN string `json:"en" validate:"omitempty,url"`
}

type linksInput struct {
	GermanLanguageSkills            urlInput `json:"german_language_skills_for_international_students"`
	StartOfSemester                 urlInput `json:"start_of_semester"`
	SemesterDates                   urlInput `json:"semester_dates"`
	ExaminationsOffice              urlInput `json:"examinations_office"`
	StudentAdvice                   urlInput `json:"student_advice"`
	SubjectSpecificAdvice           urlInput `json:"subject_specific_advice"`
	ServiceCenters                  urlInput `json:"service_centers"`
	SemesterFee                     urlInput `json:"semester_fee"`
	AbroadOpportunities             urlInput `json:"abroad_opportunities"`
	NotesForInternationalApplicants urlInput `json:"notes_for_international_applicants"`
	StudentInitiatives              urlInput `json:"student_initiatives"`
	ApplyNowLink                    urlInput `json:"apply_now_link"`
}

type draftInput struct {
	ID                  int        `json:"id" validate:"gte=0"`
	Slug                slugInput  `json:"slug"`
	FeaturedImage       string     `json:"featured_image" validate:"omitempty,url"`
	TeaserImage         string     `json:"teaser_image" validate:"omitempty,url"`
	Videos              []string   `json:"videos" validate:"dive,url"`
	URL                 urlInput   `json:"url"`
	Links               linksInput `json:"links"`
	Combinations        []int      `json:"combinations" validate:"unique,dive,gte=0"`
	LimitedCombinations []int      `json:"limited_combinations" validate:"unique,dive,gte=0"`
}

type publishInput struct {
	Slug             bilingualInput `json:"slug" validate:"required"`
	Title            bilingualInput `json:"title" validate:"required"`
	StandardDuration string         `json:"standard_duration" validate:"required"`
	DegreeName       bilingualInput `json:"degree" validate:"required"`
	TeachingLanguage bilingualInput `json:"teaching_language" validate:"required"`
	Start            []string       `json:"start" validate:"min=1"`
	Location         []string       `json:"location" validate:"min=1"`
	Faculty          []string       `json:"faculty" validate:"min=1"`
}

// DegreeProgramValidator checks update payloads with struct tag rules.
// Violations have the form "<field path>: <rule>".
type DegreeProgramValidator struct {
	validate *playground.Validate
}

func New() *DegreeProgramValidator {
	v := playground.New(playground.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl playground.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(requireBothLanguages, bilingualInput{})
	return &DegreeProgramValidator{validate: v}
}

func (v *DegreeProgramValidator) ValidateDraft(data domain.DegreeProgramData) []string {
	violations := v.check(draftFrom(data))
	if slices.Contains(data.Combinations, data.ID) || slices.Contains(data.LimitedCombinations, data.ID) {
		violations = append(violations, "combinations: self_reference")
	}
	return violations
}

// ValidatePublish applies the draft rules plus the completeness rules for a public record.
func (v *DegreeProgramValidator) ValidatePublish(data domain.DegreeProgramData) []string {
	violations := v.ValidateDraft(data)
	return append(violations, v.check(publishFrom(data))...)
}

func (v *DegreeProgramValidator) check(input any) []string {
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrors playground.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, violation(fe))
	}
	return out
}

func violation(fe playground.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		path = fe.Field()
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s: %s=%s", path, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s: %s", path, fe.Tag())
}

func requireBothLanguages(sl playground.StructLevel) {
	in := sl.Current().Interface().(bilingualInput)
	if strings.TrimSpace(in.DE) == "" {
		sl.ReportError(in.DE, "de", "DE", "required", "")
	}
	if strings.TrimSpace(in.EN) == "" {
		sl.ReportError(in.EN, "en", "EN", "required", "")
	}
}

func draftFrom(data domain.DegreeProgramData) draftInput {
	return draftInput{
		ID:            data.ID,
		Slug:          slugInput{DE: data.Slug.DE, EN: data.Slug.EN},
		FeaturedImage: data.FeaturedImage.URL,
		TeaserImage:   data.TeaserImage.URL,
		Videos:        data.Videos,
		URL:           urlInput{DE: data.URL.DE, EN: data.URL.EN},
		Links: linksInput{
			GermanLanguageSkills:            linkURL(data.GermanLanguageSkillsForInternationalStudents),
			StartOfSemester:                 linkURL(data.StartOfSemester),
			SemesterDates:                   linkURL(data.SemesterDates),
			ExaminationsOffice:              linkURL(data.ExaminationsOffice),
			StudentAdvice:                   linkURL(data.StudentAdvice),
			SubjectSpecificAdvice:           linkURL(data.SubjectSpecificAdvice),
			ServiceCenters:                  linkURL(data.ServiceCenters),
			SemesterFee:                     linkURL(data.SemesterFee),
			AbroadOpportunities:             linkURL(data.AbroadOpportunities),
			NotesForInternationalApplicants: linkURL(data.NotesForInternationalApplicants),
			StudentInitiatives:              linkURL(data.StudentInitiatives),
			ApplyNowLink:                    linkURL(data.ApplyNowLink),
		},
		Combinations:        data.Combinations,
		LimitedCombinations: data.LimitedCombinations,
	}
}

func linkURL(link domain.BilingualLink) urlInput {
	return urlInput{DE: link.LinkURL.DE, EN: link.LinkURL.EN}
}

func publishFrom(data domain.DegreeProgramData) publishInput {
	faculty := make([]string, 0, len(data.Faculty))
	for _, f := range data.Faculty {
		faculty = append(faculty, f.Name.DE)
	}
	return publishInput{
		Slug:             bilingual(data.Slug),
		Title:            bilingual(data.Title),
		StandardDuration: data.StandardDuration,
		DegreeName:       bilingual(data.Degree.Name),
		TeachingLanguage: bilingual(data.TeachingLanguage),
		Start:            data.Start.AsStrings(domain.LangDE),
		Location:         data.Location.AsStrings(domain.LangDE),
		Faculty:          faculty,
	}
}

func bilingual(s domain.BilingualString) bilingualInput {
	return bilingualInput{DE: s.DE, EN: s.EN}
}
