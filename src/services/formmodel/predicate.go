package formmodel

import (
	"strings"

	"Backend-Inspectrack/src/models"
)

// IsIssue reports whether an answer flags a deficiency for an item of type t.
// Submission building and report rendering both go through here.
func IsIssue(t models.InputType, v models.Value) bool {
	v = v.ForInput(t)
	switch t {
	case models.InputPassFail, models.InputOKIssue:
		return v.Kind == models.KindBool && !v.Bool
	case models.InputMechanicalMaintenance:
		return v.Kind == models.KindMaintenance && v.Maintenance.Issue
	case models.InputOnOff, models.InputOpenClosed, models.InputCombinedToggle,
		models.InputNumber, models.InputText, models.InputTextarea, models.InputSelect:
		return false
	}
	return false
}

// HasEffectiveValue reports whether an answer counts toward completion.
// Composite types need their nested status, not just the container.
func HasEffectiveValue(t models.InputType, v models.Value) bool {
	v = v.ForInput(t)
	switch t {
	case models.InputCombinedToggle:
		return v.Kind == models.KindToggle && v.Toggle.Status != nil
	case models.InputMechanicalMaintenance:
		return v.Kind == models.KindMaintenance && (v.Maintenance.Status != nil || v.Maintenance.Issue)
	case models.InputText, models.InputTextarea, models.InputSelect:
		return v.Kind == models.KindText && strings.TrimSpace(v.Text) != ""
	case models.InputPassFail, models.InputOKIssue, models.InputOnOff, models.InputOpenClosed, models.InputNumber:
		return !v.IsNull()
	}
	return !v.IsNull()
}
