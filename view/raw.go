package view

import "github.com/fastygo/degreeprogram/domain"

// Raw is the read-only bilingual view of a degree program. It is the
// input and output of ConditionalFieldsFilter.
type Raw struct {
	domain.DegreeProgramData
}

// RawFromData copies data into a raw view.
func RawFromData(data domain.DegreeProgramData) Raw {
	return Raw{DegreeProgramData: data.Clone()}
}

// RawFromSnapshot builds the raw view of an aggregate snapshot.
func RawFromSnapshot(snapshot domain.Snapshot) Raw {
	return RawFromData(snapshot.DegreeProgramData)
}

// ProgramID returns the typed id of the viewed program.
func (r Raw) ProgramID() domain.DegreeProgramID {
	return domain.DegreeProgramID(r.ID)
}

// AsData returns a copy of the underlying field set.
func (r Raw) AsData() domain.DegreeProgramData {
	return r.DegreeProgramData.Clone()
}
