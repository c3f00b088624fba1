package view

import (
	"reflect"
	"testing"

	"github.com/fastygo/degreeprogram/domain"
)

func bl(id, de, en string) domain.BilingualString {
	return domain.NewBilingualString(id, de, en)
}

func namedLink(id, de, en string) domain.BilingualLink {
	return domain.NewBilingualLink(id, bl(id, de, en), bl("", de+" Text", en+" text"), bl("", "https://fau.de/"+id, "https://fau.eu/"+id))
}

func degreeWith(abbreviation, germanName string) domain.Degree {
	return domain.NewDegree("term:5", bl("term:5", germanName, germanName), bl("term:5", abbreviation, abbreviation))
}

func rawFixture(degree domain.Degree) Raw {
	return RawFromData(domain.DegreeProgramData{
		ID:          25,
		Slug:        bl("post_meta:slug:25", "mathematik", "mathematics"),
		Title:       bl("post_meta:title:25", "Mathematik", "Mathematics"),
		Degree:      degree,
		FeeRequired: false,
		Start: domain.NewBilingualList(
			bl("term:1", "Wintersemester", "Winter semester"),
			bl("term:2", "Sommersemester", "Summer semester"),
		),
		DegreeProgramFees: bl("post_meta:degree_program_fees:25", "500 Euro", "500 euros"),
		AdmissionRequirements: domain.NewAdmissionRequirements(
			namedLink("term:10", "Zulassungsfrei", "Open admission"),
			namedLink("term:11", "Höheres Semester", "Higher semester"),
			namedLink("term:12", "Master-Zulassung", "Master admission"),
		),
		LanguageSkillsHumanitiesFaculty:   "Latinum",
		ApplicationDeadlineWinterSemester: "15.07.",
		ApplicationDeadlineSummerSemester: "15.01.",
		Combinations:                      domain.DegreeProgramIDs{26, 27},
		LimitedCombinations:               domain.DegreeProgramIDs{28},
	})
}

func TestFilterBachelorInPhilosophyFaculty(t *testing.T) {
	raw := rawFixture(degreeWith(DegreeAbbreviationBachelor, "Bachelor"))
	got := NewConditionalFieldsFilter().Filter(raw, []string{FacultyPhilosophy})

	if !reflect.DeepEqual(got.Combinations, raw.Combinations) || !reflect.DeepEqual(got.LimitedCombinations, raw.LimitedCombinations) {
		t.Fatalf("combinations must be kept: %v %v", got.Combinations, got.LimitedCombinations)
	}
	if got.LanguageSkillsHumanitiesFaculty != "Latinum" {
		t.Fatalf("humanities language skills must be kept, got %q", got.LanguageSkillsHumanitiesFaculty)
	}
	if !got.AdmissionRequirements.Master.IsEmpty() {
		t.Fatalf("master slot must be blanked: %+v", got.AdmissionRequirements.Master)
	}
	if got.AdmissionRequirements.BachelorOrTeachingDegree != raw.AdmissionRequirements.BachelorOrTeachingDegree ||
		got.AdmissionRequirements.TeachingDegreeHigherSemester != raw.AdmissionRequirements.TeachingDegreeHigherSemester {
		t.Fatalf("bachelor slots must be kept: %+v", got.AdmissionRequirements)
	}
	if !got.DegreeProgramFees.IsEmpty() {
		t.Fatalf("fees must be blanked when no fee is required: %+v", got.DegreeProgramFees)
	}
}

func TestFilterMaster(t *testing.T) {
	for _, feeRequired := range []bool{true, false} {
		raw := rawFixture(degreeWith(DegreeAbbreviationMaster, "Master"))
		raw.FeeRequired = feeRequired
		got := NewConditionalFieldsFilter().Filter(raw, []string{FacultyPhilosophy, FacultyNaturalScience})

		if got.DegreeProgramFees.IsEmpty() == feeRequired {
			t.Fatalf("feeRequired=%v: unexpected fees %+v", feeRequired, got.DegreeProgramFees)
		}
		if len(got.Combinations) != 0 || len(got.LimitedCombinations) != 0 {
			t.Fatalf("combinations must be blanked for master: %v %v", got.Combinations, got.LimitedCombinations)
		}
		if !got.AdmissionRequirements.BachelorOrTeachingDegree.IsEmpty() || !got.AdmissionRequirements.TeachingDegreeHigherSemester.IsEmpty() {
			t.Fatalf("bachelor slots must be blanked: %+v", got.AdmissionRequirements)
		}
		if got.AdmissionRequirements.Master != raw.AdmissionRequirements.Master {
			t.Fatalf("master slot must be kept: %+v", got.AdmissionRequirements.Master)
		}
		if got.LanguageSkillsHumanitiesFaculty != "" {
			t.Fatalf("humanities language skills must be blanked, got %q", got.LanguageSkillsHumanitiesFaculty)
		}
	}
}

func TestFilterCombinationsNeedFaculty(t *testing.T) {
	raw := rawFixture(degreeWith("", AdditionalDegreeName))
	if got := NewConditionalFieldsFilter().Filter(raw, []string{"med"}); len(got.Combinations) != 0 {
		t.Fatalf("combinations must be blanked outside phil/nat: %v", got.Combinations)
	}
	if got := NewConditionalFieldsFilter().Filter(raw, []string{FacultyNaturalScience}); len(got.Combinations) != 2 {
		t.Fatalf("combinations must be kept for nat + additional degree: %v", got.Combinations)
	}
}

func TestFilterApplicationDeadlines(t *testing.T) {
	raw := rawFixture(degreeWith(DegreeAbbreviationBachelor, "Bachelor"))
	raw.Start = domain.NewBilingualList(bl("term:1", "Wintersemester", "Winter semester"))

	got := NewConditionalFieldsFilter().Filter(raw, nil)
	if got.ApplicationDeadlineWinterSemester != "15.07." {
		t.Fatalf("winter deadline must be kept, got %q", got.ApplicationDeadlineWinterSemester)
	}
	if got.ApplicationDeadlineSummerSemester != "" {
		t.Fatalf("summer deadline must be blanked, got %q", got.ApplicationDeadlineSummerSemester)
	}
}

func TestFilterFreeAdmissionBlanksHigherSemester(t *testing.T) {
	raw := rawFixture(degreeWith(DegreeAbbreviationTeachingDegree, "Lehramt"))
	raw.AdmissionRequirements.BachelorOrTeachingDegree = namedLink("term:13", domain.AdmissionRequirementFree, "free")

	got := NewConditionalFieldsFilter().Filter(raw, nil)
	if !got.AdmissionRequirements.TeachingDegreeHigherSemester.IsEmpty() {
		t.Fatalf("higher semester slot must be blanked: %+v", got.AdmissionRequirements)
	}
	if got.AdmissionRequirements.BachelorOrTeachingDegree.IsEmpty() {
		t.Fatal("bachelor or teaching degree slot must be kept")
	}
}

func TestFilterIsIdempotentAndPure(t *testing.T) {
	degrees := []domain.Degree{
		degreeWith(DegreeAbbreviationBachelor, "Bachelor"),
		degreeWith(DegreeAbbreviationMaster, "Master"),
		degreeWith(DegreeAbbreviationTeachingDegree, "Lehramt"),
		degreeWith("", AdditionalDegreeName),
		domain.EmptyDegree(),
	}
	faculties := [][]string{nil, {FacultyPhilosophy}, {FacultyNaturalScience, "med"}}
	filter := NewConditionalFieldsFilter()

	for _, degree := range degrees {
		for _, slugs := range faculties {
			raw := rawFixture(degree)
			before := raw.AsData()
			once := filter.Filter(raw, slugs)
			twice := filter.Filter(once, slugs)
			if !reflect.DeepEqual(once, twice) {
				t.Fatalf("filter not idempotent for %+v %v", degree.Abbreviation, slugs)
			}
			if !reflect.DeepEqual(before, raw.AsData()) {
				t.Fatalf("filter modified its input for %+v %v", degree.Abbreviation, slugs)
			}
		}
	}
}
