package output

import (
	"encoding/json"

	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
)

// ToJSON serializes a ranking result.
func ToJSON(result *models.Result, pretty bool) ([]byte, error) {
	return marshal(result, pretty)
}

// PartitionToJSON serializes a single partition.
func PartitionToJSON(p *models.Partition, pretty bool) ([]byte, error) {
	return marshal(p, pretty)
}

// UploadsToJSON serializes an upload listing.
func UploadsToJSON(uploads []models.Upload, pretty bool) ([]byte, error) {
	if uploads == nil {
		uploads = []models.Upload{}
	}
	return marshal(uploads, pretty)
}

func marshal(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
