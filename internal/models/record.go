package models

import "time"

// Происхождение текущих значений записи.
const (
	OriginImported = "IMPORTED"
	OriginLocal    = "LOCAL"
)

// Record — одна посылка. Идентичность задаётся только TrackingNumber.
type Record struct {
	TrackingNumber string `json:"trackingNumber"`
	Company        string `json:"company"`
	Batch          string `json:"batch"`
	Kind           string `json:"kind"`
	Status         string `json:"status"`
	ArrivedAt      string `json:"arrivedAt"`
	DispatchedAt   string `json:"dispatchedAt"`
	Recipient      string `json:"recipient"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`

	// Где в исходном листе нашли номер. Только для отображения,
	// никогда не участвует в идентичности.
	SourceRow         int    `json:"sourceRow"`
	SourceColumn      int    `json:"sourceColumn"`
	SourceColumnLabel string `json:"sourceColumnLabel"`

	Origin    string    `json:"origin"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sheet is one tabular sheet as it arrives from the file-parsing side:
// row 0 is the header, cells are raw scalars (string, number, blank).
type Sheet struct {
	Name string  `json:"name"`
	Rows [][]any `json:"rows"`
}

type Workbook struct {
	Name   string  `json:"name"`
	Sheets []Sheet `json:"sheets"`
}

// RecordEditInput carries a manual edit. Editable fields are overwritten
// as-is; the record's origin flips to LOCAL.
type RecordEditInput struct {
	TrackingNumber string `json:"trackingNumber"`
	Company        string `json:"company"`
	Kind           string `json:"kind"`
	Status         string `json:"status"`
	ArrivedAt      string `json:"arrivedAt"`
	DispatchedAt   string `json:"dispatchedAt"`
	Recipient      string `json:"recipient"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
}
