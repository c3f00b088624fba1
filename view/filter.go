package view

import (
	"slices"

	"github.com/fastygo/degreeprogram/domain"
)

// Faculty slugs, semester names and degree markers the filter rules depend on.
const (
	FacultyPhilosophy     = "phil"
	FacultyNaturalScience = "nat"

	SemesterSummer = "Sommersemester"
	SemesterWinter = "Wintersemester"

	AdditionalDegreeName = "Weiteres"

	DegreeAbbreviationBachelor       = "BA"
	DegreeAbbreviationMaster         = "MA"
	DegreeAbbreviationTeachingDegree = "LA"
)

var combinationFaculties = []string{FacultyPhilosophy, FacultyNaturalScience}

// ConditionalFieldsFilter blanks fields that do not apply to a program's
// degree and faculty context. It never fails and is idempotent.
type ConditionalFieldsFilter struct{}

func NewConditionalFieldsFilter() ConditionalFieldsFilter {
	return ConditionalFieldsFilter{}
}

// Filter returns a filtered copy of raw. The input is not modified.
func (ConditionalFieldsFilter) Filter(raw Raw, facultySlugs []string) Raw {
	data := raw.AsData()
	degree := raw.Degree

	if !raw.FeeRequired {
		data.DegreeProgramFees = domain.EmptyBilingualString()
	}

	if !combinationsEnabled(facultySlugs, degree) {
		data.Combinations = domain.DegreeProgramIDs{}
		data.LimitedCombinations = domain.DegreeProgramIDs{}
	}

	data.AdmissionRequirements = filterAdmissionRequirements(raw.AdmissionRequirements, degree)

	if !humanitiesLanguageSkillsEnabled(facultySlugs, degree) {
		data.LanguageSkillsHumanitiesFaculty = ""
	}
	if !raw.Start.ContainsGermanString(SemesterWinter) {
		data.ApplicationDeadlineWinterSemester = ""
	}
	if !raw.Start.ContainsGermanString(SemesterSummer) {
		data.ApplicationDeadlineSummerSemester = ""
	}

	return Raw{DegreeProgramData: data}
}

func isBachelorContext(degree domain.Degree) bool {
	return degree.HasGermanAbbreviation(DegreeAbbreviationBachelor) ||
		degree.Name.InGerman() == AdditionalDegreeName
}

func isTeachingDegreeContext(degree domain.Degree) bool {
	return degree.HasGermanAbbreviation(DegreeAbbreviationTeachingDegree)
}

func isMasterContext(degree domain.Degree) bool {
	return degree.HasGermanAbbreviation(DegreeAbbreviationMaster)
}

func isBachelorOrTeachingDegreeContext(degree domain.Degree) bool {
	return isBachelorContext(degree) || isTeachingDegreeContext(degree)
}

func filterAdmissionRequirements(requirements domain.AdmissionRequirements, degree domain.Degree) domain.AdmissionRequirements {
	result := requirements
	if !isMasterContext(degree) {
		result.Master = domain.EmptyBilingualLink()
	}
	if !isBachelorOrTeachingDegreeContext(degree) {
		result.BachelorOrTeachingDegree = domain.EmptyBilingualLink()
		result.TeachingDegreeHigherSemester = domain.EmptyBilingualLink()
		return result
	}
	if requirements.BachelorOrTeachingDegree.HasGermanName(domain.AdmissionRequirementFree) {
		result.TeachingDegreeHigherSemester = domain.EmptyBilingualLink()
	}
	return result
}

func combinationsEnabled(facultySlugs []string, degree domain.Degree) bool {
	intersects := slices.ContainsFunc(facultySlugs, func(slug string) bool {
		return slices.Contains(combinationFaculties, slug)
	})
	return intersects && isBachelorContext(degree)
}

func humanitiesLanguageSkillsEnabled(facultySlugs []string, degree domain.Degree) bool {
	return slices.Contains(facultySlugs, FacultyPhilosophy) && isBachelorOrTeachingDegreeContext(degree)
}
