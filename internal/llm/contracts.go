package llm

import "context"

// MappedData is the normalized shape we want from the mapping service:
// semantic field names to string values for text fields and bool values for
// checkbox fields.
type MappedData map[string]any

// MapRequest carries one client's raw spreadsheet row plus the vocabulary
// the service may map onto.
type MapRequest struct {
	ClientName string
	RowData    map[string]string
	FieldNames []string
}

// FieldMapper is the interface the request pipeline depends on. The second
// return value is the raw JSON the service produced, kept for auditing.
type FieldMapper interface {
	MapFields(ctx context.Context, req MapRequest) (MappedData, []byte, error)
}
