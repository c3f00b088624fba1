package view

import (
	"fmt"
	"html"
	"strings"

	"github.com/fastygo/degreeprogram/domain"
)

// Link is a BilingualLink flattened to one language.
type Link struct {
	Name     string `json:"name"`
	LinkText string `json:"link_text"`
	LinkURL  string `json:"link_url"`
}

func NewLink(name, linkText, linkURL string) Link {
	return Link{Name: name, LinkText: linkText, LinkURL: linkURL}
}

func LinkFromBilingual(link domain.BilingualLink, languageCode string) Link {
	return Link{
		Name:     link.Name.AsString(languageCode),
		LinkText: link.LinkText.AsString(languageCode),
		LinkURL:  link.LinkURL.AsString(languageCode),
	}
}

// AsHTML renders an anchor when text and URL are set, the bare text when
// only the text is set, and "" otherwise.
func (l Link) AsHTML() string {
	switch {
	case l.LinkText != "" && l.LinkURL != "":
		return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(l.LinkURL), html.EscapeString(l.LinkText))
	case l.LinkText != "":
		return html.EscapeString(l.LinkText)
	default:
		return ""
	}
}

func LinksFromBilingual(links domain.BilingualLinks, languageCode string) []Link {
	out := make([]Link, 0, len(links))
	for _, link := range links {
		out = append(out, LinkFromBilingual(link, languageCode))
	}
	return out
}

// DegreeTranslated is a Degree flattened to one language.
type DegreeTranslated struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

func DegreeTranslatedFromDegree(degree domain.Degree, languageCode string) DegreeTranslated {
	return DegreeTranslated{
		Name:         degree.Name.AsString(languageCode),
		Abbreviation: degree.Abbreviation.AsString(languageCode),
	}
}

// RelatedDegreeProgram is a combinable program as shown in another program's view.
type RelatedDegreeProgram struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ProgramURL builds the public URL of a program from its slug.
func ProgramURL(baseURL, slug string) string {
	if slug == "" {
		return ""
	}
	return strings.TrimRight(baseURL, "/") + "/" + slug
}
