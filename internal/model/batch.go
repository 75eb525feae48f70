package model

type Category string

const (
	CategoryJEE    Category = "jee"
	CategoryNEET   Category = "neet"
	CategoryBoards Category = "boards"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryJEE, CategoryNEET, CategoryBoards:
		return true
	}
	return false
}

type Subject struct {
	Name    string `json:"name"`
	Teacher *User  `json:"teacher,omitempty"`
}

// Batch is a cohort of students taught across a set of classes and
// subjects. A student belongs to at most one batch at a time; the server
// enforces this and the client only ever sees it through the eligible
// lists.
type Batch struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Classes     []string  `json:"classes"`
	Category    Category  `json:"category"`
	Subjects    []Subject `json:"subjects,omitempty"`
	Students    []User    `json:"students,omitempty"`
	Teachers    []User    `json:"teachers,omitempty"`
	Schedule    string    `json:"schedule,omitempty"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
}

func (b *Batch) HasClass(class string) bool {
	for _, c := range b.Classes {
		if c == class {
			return true
		}
	}
	return false
}

func (b *Batch) HasSubject(name string) bool {
	for _, s := range b.Subjects {
		if s.Name == name {
			return true
		}
	}
	return false
}
