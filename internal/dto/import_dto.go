package dto

// ImportResult summarizes a warehouse spreadsheet import. Rows that updated
// an existing product are not counted separately; rows that failed to parse
// were logged and skipped without aborting the batch.
type ImportResult struct {
	Message         string `json:"message"`
	ProductsCreated int    `json:"products_created"`
	RowsSkipped     int    `json:"rows_skipped"`
}
