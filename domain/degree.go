package domain

import "fmt"

// Degree is the academic degree a program leads to (Bachelor, Master, ...).
type Degree struct {
	ID           string          `json:"id"`
	Name         BilingualString `json:"name"`
	Abbreviation BilingualString `json:"abbreviation"`
}

func NewDegree(id string, name, abbreviation BilingualString) Degree {
	return Degree{ID: id, Name: name, Abbreviation: abbreviation}
}

func EmptyDegree() Degree {
	return Degree{}
}

// AsString renders "<abbreviation>: <name>" in the given language.
func (d Degree) AsString(languageCode string) string {
	name := d.Name.AsString(languageCode)
	if name == "" {
		return ""
	}
	abbreviation := d.Abbreviation.AsString(languageCode)
	if abbreviation == "" {
		return name
	}
	return fmt.Sprintf("%s: %s", abbreviation, name)
}

func (d Degree) HasGermanAbbreviation(abbreviation string) bool {
	return d.Abbreviation.DE == abbreviation
}

// DegreeProgramID identifies a degree program. It is never negative.
type DegreeProgramID int

func NewDegreeProgramID(id int) (DegreeProgramID, error) {
	if id < 0 {
		return 0, NewError(ErrCodeInvalid, fmt.Sprintf("invalid degree program id %d", id))
	}
	return DegreeProgramID(id), nil
}

func (id DegreeProgramID) Int() int { return int(id) }

// DegreeProgramIDs is a list of related program ids.
type DegreeProgramIDs []int
