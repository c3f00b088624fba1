package view

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/fastygo/degreeprogram/domain"
)

func translatedFixture(lang, title string) *Translated {
	return &Translated{
		ID:      25,
		Lang:    lang,
		Title:   title,
		Slug:    title,
		Start:   []string{"Winter"},
		Faculty: []Link{NewLink("Phil", "Phil", "https://fau.de/phil")},
		Combinations: []RelatedDegreeProgram{
			{ID: 26, Title: "Physik", URL: "https://fau.de/physik"},
		},
	}
}

func TestWithBaseLangOwnLanguageReturnsReceiver(t *testing.T) {
	view := translatedFixture(domain.LangDE, "Mathematik")
	got, err := view.WithBaseLang(domain.LangDE)
	if err != nil {
		t.Fatalf("WithBaseLang: %v", err)
	}
	if got != view {
		t.Fatal("expected the receiver itself")
	}
}

func TestWithBaseLangMissingTranslation(t *testing.T) {
	view := translatedFixture(domain.LangDE, "Mathematik")
	if _, err := view.WithBaseLang(domain.LangEN); !errors.Is(err, domain.ErrMissingTranslation) {
		t.Fatalf("expected missing translation, got %v", err)
	}
}

func TestWithTranslationThenWithBaseLang(t *testing.T) {
	german := translatedFixture(domain.LangDE, "Mathematik")
	english := translatedFixture(domain.LangEN, "Mathematics")

	combined := german.WithTranslation(english, domain.LangEN)
	if len(german.Translations()) != 0 {
		t.Fatal("WithTranslation modified the receiver")
	}
	if got, _ := combined.Translation(domain.LangEN); got != english {
		t.Fatal("translation must be shared by reference")
	}

	pivoted, err := combined.WithBaseLang(domain.LangEN)
	if err != nil {
		t.Fatalf("WithBaseLang: %v", err)
	}
	if pivoted.Lang != domain.LangEN || pivoted.Title != "Mathematics" {
		t.Fatalf("unexpected pivot %+v", pivoted)
	}

	translations := pivoted.Translations()
	if len(translations) != 1 {
		t.Fatalf("expected exactly one translation, got %v", translations)
	}
	original, ok := translations[domain.LangDE]
	if !ok || original.Title != "Mathematik" {
		t.Fatalf("original must be attached under de: %+v", translations)
	}
	if len(original.Translations()) != 0 {
		t.Fatal("attached original must not carry translations")
	}

	// everything except the translation map equals the english view
	withoutTranslations := *pivoted
	withoutTranslations.translations = nil
	if !reflect.DeepEqual(withoutTranslations, *english) {
		t.Fatalf("pivot differs from english view:\n%+v\n%+v", withoutTranslations, *english)
	}
	if len(english.Translations()) != 0 {
		t.Fatal("stored sibling must not be modified")
	}
	if len(combined.Translations()) != 1 {
		t.Fatal("receiver must not be modified")
	}
}

func TestWithTranslationIgnoresOwnLanguage(t *testing.T) {
	german := translatedFixture(domain.LangDE, "Mathematik")
	got := german.WithTranslation(translatedFixture(domain.LangDE, "Other"), domain.LangDE)
	if len(got.Translations()) != 0 {
		t.Fatalf("view must not hold its own language: %v", got.Translations())
	}
}

func TestTranslatedJSON(t *testing.T) {
	german := translatedFixture(domain.LangDE, "Mathematik")
	view := german.WithTranslation(translatedFixture(domain.LangEN, "Mathematics"), domain.LangEN)

	data, err := json.Marshal(view)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["id"] != float64(25) {
		t.Fatalf("top level id missing: %v", doc["id"])
	}
	translations, ok := doc["translations"].(map[string]any)
	if !ok {
		t.Fatalf("top level translations missing: %s", data)
	}
	english, ok := translations[domain.LangEN].(map[string]any)
	if !ok {
		t.Fatalf("english translation missing: %s", data)
	}
	if _, ok := english["id"]; ok {
		t.Fatalf("nested translation must not contain id: %v", english)
	}
	if _, ok := english["translations"]; ok {
		t.Fatalf("nested translation must not contain translations: %v", english)
	}
	if english["title"] != "Mathematics" {
		t.Fatalf("unexpected nested title %v", english["title"])
	}

	restored, err := TranslatedFromJSON(data)
	if err != nil {
		t.Fatalf("TranslatedFromJSON: %v", err)
	}
	if restored.Title != "Mathematik" || restored.ID != 25 {
		t.Fatalf("unexpected restored view %+v", restored)
	}
	restoredEnglish, ok := restored.Translation(domain.LangEN)
	if !ok || restoredEnglish.ID != 25 || restoredEnglish.Title != "Mathematics" {
		t.Fatalf("unexpected restored translation %+v", restoredEnglish)
	}
}

func TestLinkAsHTML(t *testing.T) {
	tests := []struct {
		link Link
		want string
	}{
		{link: NewLink("n", "Text", "https://fau.de"), want: `<a href="https://fau.de">Text</a>`},
		{link: NewLink("n", "Text", ""), want: "Text"},
		{link: NewLink("n", "", "https://fau.de"), want: ""},
	}
	for _, tt := range tests {
		if got := tt.link.AsHTML(); got != tt.want {
			t.Errorf("AsHTML(%+v) = %q, want %q", tt.link, got, tt.want)
		}
	}
}
