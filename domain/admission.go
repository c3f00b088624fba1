package domain

// Degree names (English) that select an admission requirement slot.
const (
	DegreeNameBachelor       = "Bachelor"
	DegreeNameTeachingDegree = "Teaching degree"
	DegreeNameMaster         = "Master"

	// AdmissionRequirementFree marks "no admission requirement".
	AdmissionRequirementFree = "frei"
)

// AdmissionRequirements holds the three admission requirement slots of a program.
type AdmissionRequirements struct {
	BachelorOrTeachingDegree     BilingualLink `json:"bachelor_or_teaching_degree"`
	TeachingDegreeHigherSemester BilingualLink `json:"teaching_degree_higher_semester"`
	Master                       BilingualLink `json:"master"`
}

func NewAdmissionRequirements(bachelorOrTeachingDegree, teachingDegreeHigherSemester, master BilingualLink) AdmissionRequirements {
	return AdmissionRequirements{
		BachelorOrTeachingDegree:     bachelorOrTeachingDegree,
		TeachingDegreeHigherSemester: teachingDegreeHigherSemester,
		Master:                       master,
	}
}

// RequirementsForDegree picks the slot that applies to the degree, by its English name.
func (a AdmissionRequirements) RequirementsForDegree(degree Degree) BilingualLink {
	switch degree.Name.InEnglish() {
	case DegreeNameBachelor, DegreeNameTeachingDegree:
		return a.BachelorOrTeachingDegree
	case DegreeNameMaster:
		return a.Master
	case AdmissionRequirementFree:
		return EmptyBilingualLink()
	default:
		return a.TeachingDegreeHigherSemester
	}
}

func (a AdmissionRequirements) Slots() []BilingualLink {
	return []BilingualLink{a.BachelorOrTeachingDegree, a.TeachingDegreeHigherSemester, a.Master}
}
