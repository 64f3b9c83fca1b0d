package models

// InputType is the answer widget a checklist item is rendered with.
type InputType string

const (
	InputPassFail              InputType = "pass-fail"
	InputOKIssue               InputType = "ok-issue"
	InputOnOff                 InputType = "on-off"
	InputOpenClosed            InputType = "open-closed"
	InputNumber                InputType = "number"
	InputText                  InputType = "text"
	InputTextarea              InputType = "textarea"
	InputSelect                InputType = "select"
	InputCombinedToggle        InputType = "combined-toggle"
	InputMechanicalMaintenance InputType = "mechanical-maintenance"
)

var inputTypes = []InputType{
	InputPassFail,
	InputOKIssue,
	InputOnOff,
	InputOpenClosed,
	InputNumber,
	InputText,
	InputTextarea,
	InputSelect,
	InputCombinedToggle,
	InputMechanicalMaintenance,
}

// InputTypes returns every known input type in declaration order.
func InputTypes() []InputType {
	out := make([]InputType, len(inputTypes))
	copy(out, inputTypes)
	return out
}

func (t InputType) Valid() bool {
	for _, it := range inputTypes {
		if it == t {
			return true
		}
	}
	return false
}

// ChecklistItemDefinition is one line of an inspection form.
// Ids are unique within their section.
type ChecklistItemDefinition struct {
	ID        string    `bson:"id" json:"id"`
	Label     string    `bson:"label" json:"label"`
	InputType InputType `bson:"inputType" json:"inputType"`
	Required  bool      `bson:"required" json:"required"`
	Unit      string    `bson:"unit,omitempty" json:"unit,omitempty"`
	Options   []string  `bson:"options,omitempty" json:"options,omitempty"`
	IsCustom  bool      `bson:"isCustom,omitempty" json:"isCustom,omitempty"`
}

// Clone returns a copy that shares no slices with the receiver.
func (d ChecklistItemDefinition) Clone() ChecklistItemDefinition {
	if d.Options != nil {
		d.Options = append([]string(nil), d.Options...)
	}
	return d
}

// TemplateSection groups items under a heading.
type TemplateSection struct {
	ID    string                    `bson:"id" json:"id"`
	Title string                    `bson:"title" json:"title"`
	Items []ChecklistItemDefinition `bson:"items" json:"items"`
}

// FormTemplate is catalog reference data and is never mutated at runtime.
type FormTemplate struct {
	ID          string            `bson:"id" json:"id"`
	Name        string            `bson:"name" json:"name"`
	Description string            `bson:"description,omitempty" json:"description,omitempty"`
	Sections    []TemplateSection `bson:"sections" json:"sections"`
}

// Clone deep-copies the template.
func (t FormTemplate) Clone() FormTemplate {
	out := t
	out.Sections = make([]TemplateSection, len(t.Sections))
	for i, s := range t.Sections {
		items := make([]ChecklistItemDefinition, len(s.Items))
		for j, it := range s.Items {
			items[j] = it.Clone()
		}
		out.Sections[i] = TemplateSection{ID: s.ID, Title: s.Title, Items: items}
	}
	return out
}

// Section returns the section with the given id.
func (t FormTemplate) Section(id string) (TemplateSection, bool) {
	for _, s := range t.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return TemplateSection{}, false
}
