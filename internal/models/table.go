package models

// TableData is everything fetched for one table: its rows plus the
// optional column mapping and alerts metadata companions. A nil companion
// means the companion table does not exist.
type TableData struct {
	MainData    []Row
	ColumnsData []ColumnMapping
	Metadata    []AlertsMetadata
}
