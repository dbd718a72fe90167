package dto

// ImportTermsRequest carries raw SIS term records. Records keep whatever
// shape the upstream export produced; normalization happens server-side.
type ImportTermsRequest struct {
	Terms []map[string]any `json:"terms" binding:"required"`
}

// ImportTermsResponse reports what the normalizer did with the payload
type ImportTermsResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
