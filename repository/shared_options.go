package repository

import "github.com/fastygo/degreeprogram/domain"

// Keys of the organizational links that are stored once and shared by all programs.
const (
	SharedLinkStartOfSemester                 = "start_of_semester"
	SharedLinkSemesterDates                   = "semester_dates"
	SharedLinkStudentAdvice                   = "student_advice"
	SharedLinkServiceCenters                  = "service_centers"
	SharedLinkSemesterFee                     = "semester_fee"
	SharedLinkAbroadOpportunities             = "abroad_opportunities"
	SharedLinkNotesForInternationalApplicants = "notes_for_international_applicants"
	SharedLinkStudentInitiatives              = "student_initiatives"
)

// SharedLinkKeys lists every supported shared link key.
var SharedLinkKeys = []string{
	SharedLinkStartOfSemester,
	SharedLinkSemesterDates,
	SharedLinkStudentAdvice,
	SharedLinkServiceCenters,
	SharedLinkSemesterFee,
	SharedLinkAbroadOpportunities,
	SharedLinkNotesForInternationalApplicants,
	SharedLinkStudentInitiatives,
}

// SharedLinkID is the storage identity of a shared link.
func SharedLinkID(key string) string {
	return "option:fau_" + key
}

// ApplySharedLinks overwrites the shared link fields of data with the
// stored values. Keys without a stored value keep the record's own link.
func ApplySharedLinks(data *domain.DegreeProgramData, links map[string]domain.BilingualLink) {
	targets := map[string]*domain.BilingualLink{
		SharedLinkStartOfSemester:                 &data.StartOfSemester,
		SharedLinkSemesterDates:                   &data.SemesterDates,
		SharedLinkStudentAdvice:                   &data.StudentAdvice,
		SharedLinkServiceCenters:                  &data.ServiceCenters,
		SharedLinkSemesterFee:                     &data.SemesterFee,
		SharedLinkAbroadOpportunities:             &data.AbroadOpportunities,
		SharedLinkNotesForInternationalApplicants: &data.NotesForInternationalApplicants,
		SharedLinkStudentInitiatives:              &data.StudentInitiatives,
	}
	for key, target := range targets {
		if link, ok := links[key]; ok && !link.IsEmpty() {
			*target = link
		}
	}
}
