package models

type ModalKind string

const (
	ModalAddStudent     ModalKind = "add-student"
	ModalEditStudent    ModalKind = "edit-student"
	ModalViewStudent    ModalKind = "view-student"
	ModalDeleteStudent  ModalKind = "delete-student"
	ModalImportStudents ModalKind = "import-students"
)

func (k ModalKind) IsValid() bool {
	switch k {
	case ModalAddStudent, ModalEditStudent, ModalViewStudent, ModalDeleteStudent, ModalImportStudents:
		return true
	}
	return false
}

// NeedsStudent reports whether opening the modal requires an existing record.
func (k ModalKind) NeedsStudent() bool {
	return k == ModalEditStudent || k == ModalViewStudent || k == ModalDeleteStudent
}

type FieldOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type FormField struct {
	Name     string        `json:"name"`
	Label    string        `json:"label"`
	Type     string        `json:"type"`
	Value    string        `json:"value,omitempty"`
	Required bool          `json:"required"`
	ReadOnly bool          `json:"read_only,omitempty"`
	Options  []FieldOption `json:"options,omitempty"`
}

type DetailRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Badge string `json:"badge,omitempty"`
}

// ModalView is the rendered template content of the open modal.
type ModalView struct {
	Handle         string      `json:"handle"`
	Kind           ModalKind   `json:"kind"`
	Title          string      `json:"title"`
	StudentNIS     string      `json:"student_nis,omitempty"`
	Fields         []FormField `json:"fields,omitempty"`
	Details        []DetailRow `json:"details,omitempty"`
	ConfirmMessage string      `json:"confirm_message,omitempty"`
	Instructions   []string    `json:"instructions,omitempty"`
	CancelLabel    string      `json:"cancel_label"`
	SubmitLabel    string      `json:"submit_label,omitempty"`
}
