package models

// ItemResponse is the current answer for a single checklist item.
type ItemResponse struct {
	Value          Value  `bson:"value" json:"value"`
	Note           string `bson:"note,omitempty" json:"note,omitempty"`
	ActionBy       string `bson:"actionBy,omitempty" json:"actionBy,omitempty"`
	CompletionDate string `bson:"completionDate,omitempty" json:"completionDate,omitempty"`
}

// FormResponse maps item id to its answer.
type FormResponse map[string]ItemResponse

// Clone returns a shallow copy of the map; ItemResponse values are copied by value.
func (r FormResponse) Clone() FormResponse {
	out := make(FormResponse, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
