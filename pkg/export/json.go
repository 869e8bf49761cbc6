package export

import (
	"encoding/json"
	"os"
)

// ExportJSON serializes the artifact to JSON with 2-space indentation.
func ExportJSON(artifact Artifact) ([]byte, error) {
	return json.MarshalIndent(artifact, "", "  ")
}

// ExportJSONCompact serializes the artifact to JSON without indentation.
func ExportJSONCompact(artifact Artifact) ([]byte, error) {
	return json.Marshal(artifact)
}

// SaveJSONToFile exports the artifact to an indented JSON file.
func SaveJSONToFile(artifact Artifact, filepath string) error {
	data, err := ExportJSON(artifact)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}

// SaveJSONCompactToFile exports the artifact to a compact JSON file.
func SaveJSONCompactToFile(artifact Artifact, filepath string) error {
	data, err := ExportJSONCompact(artifact)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}
