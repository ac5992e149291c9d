package models

import "time"

// Upload describes a stored source file and its decoded rows.
type Upload struct {
	// Key is the blob key of the stored source file.
	Key string `json:"key"`
	// Owner is the namespace the upload belongs to.
	Owner string `json:"owner"`
	// OriginalName is the file name as provided by the uploader.
	OriginalName string `json:"original_name"`
	// UploadedAt is the upload time (UTC).
	UploadedAt time.Time `json:"uploaded_at"`
	// Size is the source file size in bytes.
	Size int64 `json:"size"`
	// RowCount is the number of decoded rows stored alongside the file.
	RowCount int `json:"row_count"`
}
