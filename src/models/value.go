package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// ValueKind tags which field of a Value is meaningful.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindText
	KindToggle
	KindMaintenance
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindToggle:
		return "toggle"
	case KindMaintenance:
		return "maintenance"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ToggleValue is the answer of a combined-toggle item: a status switch plus a free reading.
type ToggleValue struct {
	Status  *bool  `bson:"status" json:"status"`
	Reading string `bson:"reading,omitempty" json:"reading,omitempty"`
}

// MaintenanceValue is the answer of a mechanical-maintenance item.
type MaintenanceValue struct {
	Status *string `bson:"status" json:"status"`
	Issue  bool    `bson:"issue" json:"issue"`
}

// Value is a checklist answer. On the wire it is a bare boolean, number,
// string, object or null; Kind records which one was received.
type Value struct {
	Kind        ValueKind
	Bool        bool
	Number      float64
	Text        string
	Toggle      ToggleValue
	Maintenance MaintenanceValue
}

func Null() Value { return Value{} }
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Number: n} }
func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }
func ToggleOf(status *bool, reading string) Value {
	return Value{Kind: KindToggle, Toggle: ToggleValue{Status: status, Reading: reading}}
}
func MaintenanceOf(status *string, issue bool) Value {
	return Value{Kind: KindMaintenance, Maintenance: MaintenanceValue{Status: status, Issue: issue}}
}

func (v Value) IsNull() bool { return v.Kind == KindNull }

// ForInput reconciles an object answer with the widget it belongs to. An
// object with neither status nor issue reads the same as either composite, so
// it is re-tagged to the one the item expects.
func (v Value) ForInput(t InputType) Value {
	switch {
	case t == InputMechanicalMaintenance && v.Kind == KindToggle && v.Toggle.Status == nil && v.Toggle.Reading == "":
		return MaintenanceOf(nil, false)
	case t == InputCombinedToggle && v.Kind == KindMaintenance && v.Maintenance.Status == nil && !v.Maintenance.Issue:
		return ToggleOf(nil, "")
	}
	return v
}

// Interface returns the plain Go representation used for display.
func (v Value) Interface() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number
	case KindText:
		return v.Text
	case KindToggle:
		return v.Toggle
	case KindMaintenance:
		return v.Maintenance
	}
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	switch data[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return err
		}
		if isMaintenanceShape(fields) {
			var m MaintenanceValue
			if err := json.Unmarshal(data, &m); err != nil {
				return err
			}
			*v = Value{Kind: KindMaintenance, Maintenance: m}
			return nil
		}
		var t ToggleValue
		if raw, ok := fields["status"]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			var b bool
			if err := json.Unmarshal(raw, &b); err != nil {
				return fmt.Errorf("toggle status: %w", err)
			}
			t.Status = &b
		}
		if raw, ok := fields["reading"]; ok {
			t.Reading = rawReading(raw)
		}
		*v = Value{Kind: KindToggle, Toggle: t}
	case '[':
		return fmt.Errorf("unsupported answer value %s", data)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = NumberValue(n)
	}
	return nil
}

// isMaintenanceShape tells a maintenance object from a toggle: it carries an
// issue flag or a textual status, where a toggle's status is a boolean.
func isMaintenanceShape(fields map[string]json.RawMessage) bool {
	if _, ok := fields["issue"]; ok {
		return true
	}
	raw, ok := fields["status"]
	raw = bytes.TrimSpace(raw)
	return ok && len(raw) > 0 && raw[0] == '"'
}

// rawReading accepts a reading sent either as a string or as a bare number.
func rawReading(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (v Value) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if v.Kind == KindNull {
		return bsontype.Null, nil, nil
	}
	return bson.MarshalValue(v.Interface())
}

func (v *Value) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*v = Value{}
	case bsontype.Boolean:
		*v = BoolValue(rv.Boolean())
	case bsontype.Double:
		*v = NumberValue(rv.Double())
	case bsontype.Int32:
		*v = NumberValue(float64(rv.Int32()))
	case bsontype.Int64:
		*v = NumberValue(float64(rv.Int64()))
	case bsontype.String:
		*v = TextValue(rv.StringValue())
	case bsontype.EmbeddedDocument:
		doc := rv.Document()
		_, issueErr := doc.LookupErr("issue")
		status, statusErr := doc.LookupErr("status")
		if issueErr == nil || (statusErr == nil && status.Type == bsontype.String) {
			var m MaintenanceValue
			if err := rv.Unmarshal(&m); err != nil {
				return err
			}
			*v = Value{Kind: KindMaintenance, Maintenance: m}
			return nil
		}
		var tv ToggleValue
		if statusErr == nil {
			switch status.Type {
			case bsontype.Boolean:
				b := status.Boolean()
				tv.Status = &b
			case bsontype.Null, bsontype.Undefined:
			default:
				return fmt.Errorf("toggle status: unsupported bson type %s", status.Type)
			}
		}
		if reading, err := doc.LookupErr("reading"); err == nil {
			tv.Reading = bsonReading(reading)
		}
		*v = Value{Kind: KindToggle, Toggle: tv}
	default:
		return fmt.Errorf("unsupported bson type %s for answer value", t)
	}
	return nil
}

func bsonReading(rv bson.RawValue) string {
	switch rv.Type {
	case bsontype.String:
		return rv.StringValue()
	case bsontype.Int32:
		return strconv.FormatInt(int64(rv.Int32()), 10)
	case bsontype.Int64:
		return strconv.FormatInt(rv.Int64(), 10)
	case bsontype.Double:
		return strconv.FormatFloat(rv.Double(), 'f', -1, 64)
	}
	return ""
}
