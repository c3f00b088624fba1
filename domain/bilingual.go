package domain

import "slices"

// Supported language codes.
const (
	LangDE = "de"
	LangEN = "en"
)

// Languages lists the supported language codes in catalog order.
var Languages = []string{LangDE, LangEN}

// BilingualString carries a German and an English variant of the same value.
// ID points to the storage slot the value was read from (post_meta:<key>:<id>,
// term:<id>, option:<key>) so it can be written back to the same place.
type BilingualString struct {
	ID string `json:"id"`
	DE string `json:"de"`
	EN string `json:"en"`
}

func NewBilingualString(id, de, en string) BilingualString {
	return BilingualString{ID: id, DE: de, EN: en}
}

func EmptyBilingualString() BilingualString {
	return BilingualString{}
}

// BilingualStringFromArray builds a value from its array form. Missing keys are empty.
func BilingualStringFromArray(data map[string]string) BilingualString {
	return BilingualString{
		ID: data["id"],
		DE: data[LangDE],
		EN: data[LangEN],
	}
}

func (s BilingualString) AsArray() map[string]string {
	return map[string]string{
		"id":   s.ID,
		LangDE: s.DE,
		LangEN: s.EN,
	}
}

// AsString returns the variant for languageCode; unsupported codes yield "".
func (s BilingualString) AsString(languageCode string) string {
	switch languageCode {
	case LangDE:
		return s.DE
	case LangEN:
		return s.EN
	default:
		return ""
	}
}

func (s BilingualString) InGerman() string { return s.DE }
func (s BilingualString) InEnglish() string { return s.EN }

func (s BilingualString) IsEmpty() bool {
	return s.DE == "" && s.EN == ""
}

// MapTranslations applies fn to both variants and keeps the ID.
func (s BilingualString) MapTranslations(fn func(string) string) BilingualString {
	return BilingualString{ID: s.ID, DE: fn(s.DE), EN: fn(s.EN)}
}

// BilingualList is an ordered list of bilingual strings. Order matters for display.
type BilingualList []BilingualString

func NewBilingualList(items ...BilingualString) BilingualList {
	return append(BilingualList{}, items...)
}

// BilingualListFromArray keeps nil and empty apart, so the array form round trips.
func BilingualListFromArray(data []map[string]string) BilingualList {
	if data == nil {
		return nil
	}
	list := make(BilingualList, 0, len(data))
	for _, item := range data {
		list = append(list, BilingualStringFromArray(item))
	}
	return list
}

func (l BilingualList) AsArray() []map[string]string {
	if l == nil {
		return nil
	}
	out := make([]map[string]string, 0, len(l))
	for _, item := range l {
		out = append(out, item.AsArray())
	}
	return out
}

func (l BilingualList) AsStrings(languageCode string) []string {
	out := make([]string, 0, len(l))
	for _, item := range l {
		out = append(out, item.AsString(languageCode))
	}
	return out
}

func (l BilingualList) ContainsGermanString(value string) bool {
	return slices.ContainsFunc(l, func(item BilingualString) bool {
		return item.DE == value
	})
}

// BilingualLink is a named hyperlink with per-language label and URL.
type BilingualLink struct {
	ID       string          `json:"id"`
	Name     BilingualString `json:"name"`
	LinkText BilingualString `json:"link_text"`
	LinkURL  BilingualString `json:"link_url"`
}

// BilingualLinkArray is the array form of a BilingualLink.
type BilingualLinkArray struct {
	ID       string            `json:"id"`
	Name     map[string]string `json:"name"`
	LinkText map[string]string `json:"link_text"`
	LinkURL  map[string]string `json:"link_url"`
}

func NewBilingualLink(id string, name, linkText, linkURL BilingualString) BilingualLink {
	return BilingualLink{ID: id, Name: name, LinkText: linkText, LinkURL: linkURL}
}

func EmptyBilingualLink() BilingualLink {
	return BilingualLink{}
}

func BilingualLinkFromArray(data BilingualLinkArray) BilingualLink {
	return BilingualLink{
		ID:       data.ID,
		Name:     BilingualStringFromArray(data.Name),
		LinkText: BilingualStringFromArray(data.LinkText),
		LinkURL:  BilingualStringFromArray(data.LinkURL),
	}
}

func (l BilingualLink) AsArray() BilingualLinkArray {
	return BilingualLinkArray{
		ID:       l.ID,
		Name:     l.Name.AsArray(),
		LinkText: l.LinkText.AsArray(),
		LinkURL:  l.LinkURL.AsArray(),
	}
}

func (l BilingualLink) HasGermanName(name string) bool {
	return l.Name.DE == name
}

func (l BilingualLink) IsEmpty() bool {
	return l.ID == "" && l.Name.IsEmpty() && l.LinkText.IsEmpty() && l.LinkURL.IsEmpty()
}

// BilingualLinks is an ordered list of links.
type BilingualLinks []BilingualLink

func NewBilingualLinks(items ...BilingualLink) BilingualLinks {
	return append(BilingualLinks{}, items...)
}

func BilingualLinksFromArray(data []BilingualLinkArray) BilingualLinks {
	if data == nil {
		return nil
	}
	links := make(BilingualLinks, 0, len(data))
	for _, item := range data {
		links = append(links, BilingualLinkFromArray(item))
	}
	return links
}

func (l BilingualLinks) AsArray() []BilingualLinkArray {
	if l == nil {
		return nil
	}
	out := make([]BilingualLinkArray, 0, len(l))
	for _, item := range l {
		out = append(out, item.AsArray())
	}
	return out
}
