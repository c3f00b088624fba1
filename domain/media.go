package domain

// Image references an uploaded media file.
type Image struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

func EmptyImage() Image {
	return Image{}
}

// NumberOfStudents is a student-count bucket such as "<50" or "50-150".
type NumberOfStudents struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func EmptyNumberOfStudents() NumberOfStudents {
	return NumberOfStudents{}
}

func (n NumberOfStudents) AsString() string {
	return n.Name
}
