package validator

import (
	"slices"
	"testing"

	"github.com/fastygo/degreeprogram/domain"
)

func publishable() domain.DegreeProgramData {
	return domain.DegreeProgramData{
		ID:               25,
		Slug:             domain.NewBilingualString("post_meta:slug:25", "mathematik", "mathematics"),
		Title:            domain.NewBilingualString("post_meta:title:25", "Mathematik", "Mathematics"),
		StandardDuration: "6",
		Degree: domain.NewDegree("term:7",
			domain.NewBilingualString("term:7", "Bachelor", "Bachelor"),
			domain.NewBilingualString("term:7", "BA", "BA")),
		TeachingLanguage: domain.NewBilingualString("term:3", "Deutsch", "German"),
		Start:            domain.NewBilingualList(domain.NewBilingualString("term:4", "Wintersemester", "Winter semester")),
		Location:         domain.NewBilingualList(domain.NewBilingualString("term:5", "Erlangen", "Erlangen")),
		Faculty: domain.NewBilingualLinks(domain.NewBilingualLink("term:6",
			domain.NewBilingualString("term:6", "Naturwissenschaftliche Fakultät", "Faculty of Sciences"),
			domain.EmptyBilingualString(),
			domain.NewBilingualString("term:6", "https://www.nat.fau.de", "https://www.nat.fau.eu"))),
		Videos:       []string{"https://www.fau.tv/clip/id/1"},
		Combinations: []int{26, 28},
	}
}

func TestValidateDraft(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		mutate func(d *domain.DegreeProgramData)
		want   []string
	}{
		{name: "valid", mutate: func(d *domain.DegreeProgramData) {}},
		{name: "empty draft", mutate: func(d *domain.DegreeProgramData) { *d = domain.DegreeProgramData{ID: 25} }},
		{
			name:   "invalid slug",
			mutate: func(d *domain.DegreeProgramData) { d.Slug.EN = "Mathematics Degree" },
			want:   []string{"slug.en: slug"},
		},
		{
			name:   "video url",
			mutate: func(d *domain.DegreeProgramData) { d.Videos = []string{"not a url"} },
			want:   []string{"videos[0]: url"},
		},
		{
			name:   "link url",
			mutate: func(d *domain.DegreeProgramData) { d.StudentAdvice.LinkURL.DE = "beratung" },
			want:   []string{"links.student_advice.de: url"},
		},
		{
			name:   "duplicate combination",
			mutate: func(d *domain.DegreeProgramData) { d.Combinations = []int{26, 26} },
			want:   []string{"combinations: unique"},
		},
		{
			name:   "self reference",
			mutate: func(d *domain.DegreeProgramData) { d.LimitedCombinations = []int{25} },
			want:   []string{"combinations: self_reference"},
		},
		{
			name:   "zero id",
			mutate: func(d *domain.DegreeProgramData) { d.ID = 0 },
		},
		{
			name:   "negative id",
			mutate: func(d *domain.DegreeProgramData) { d.ID = -1; d.Combinations = nil },
			want:   []string{"id: gte=0"},
		},
		{
			name:   "negative combination",
			mutate: func(d *domain.DegreeProgramData) { d.Combinations = []int{-2} },
			want:   []string{"combinations[0]: gte=0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := publishable()
			tt.mutate(&data)
			got := v.ValidateDraft(data)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("violations = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidatePublish(t *testing.T) {
	v := New()

	if got := v.ValidatePublish(publishable()); len(got) != 0 {
		t.Fatalf("expected publishable data, got %v", got)
	}

	data := publishable()
	data.Title.EN = ""
	data.Faculty = nil
	data.Slug.DE = "Mathe!"
	got := v.ValidatePublish(data)
	want := []string{"slug.de: slug", "title.en: required", "faculty: min=1"}
	if !slices.Equal(got, want) {
		t.Fatalf("violations = %v, want %v", got, want)
	}

	if got := v.ValidatePublish(domain.DegreeProgramData{ID: 25}); !slices.Contains(got, "title: required") {
		t.Fatalf("expected missing title to be reported, got %v", got)
	}
}

func TestDraftRulesAreSubsetOfPublishRules(t *testing.T) {
	v := New()
	draft := domain.DegreeProgramData{ID: 25, Slug: domain.NewBilingualString("", "mathematik", "")}
	if got := v.ValidateDraft(draft); len(got) != 0 {
		t.Fatalf("draft should pass, got %v", got)
	}
	if got := v.ValidatePublish(draft); len(got) == 0 {
		t.Fatal("incomplete draft must not be publishable")
	}
}
