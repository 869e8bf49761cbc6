package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testArtifact() Artifact {
	return Artifact{
		Accepted:      []string{"a", "c"},
		Rejected:      []string{"b"},
		ConflictEdges: []Edge{{From: "a", To: "b"}},
		DependsEdges:  []Edge{{From: "c", To: "a"}},
	}
}

func TestExportJSON_RoundTrip(t *testing.T) {
	art := testArtifact()

	data, err := ExportJSON(art)
	if err != nil {
		t.Fatalf("ExportJSON() failed: %v", err)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("ExportJSON() output is not indented")
	}

	var restored Artifact
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if len(restored.Accepted) != len(art.Accepted) {
		t.Errorf("Accepted length mismatch: got %d, want %d", len(restored.Accepted), len(art.Accepted))
	}
	if len(restored.ConflictEdges) != len(art.ConflictEdges) {
		t.Errorf("ConflictEdges length mismatch: got %d, want %d", len(restored.ConflictEdges), len(art.ConflictEdges))
	}
}

func TestExportJSONCompact_NoIndentation(t *testing.T) {
	art := testArtifact()

	data, err := ExportJSONCompact(art)
	if err != nil {
		t.Fatalf("ExportJSONCompact() failed: %v", err)
	}
	if strings.Contains(string(data), "\n  ") {
		t.Error("ExportJSONCompact() output should not be indented")
	}

	var restored Artifact
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
}

func TestSaveJSONToFile(t *testing.T) {
	art := testArtifact()
	path := filepath.Join(t.TempDir(), "artifact.json")

	if err := SaveJSONToFile(art, path); err != nil {
		t.Fatalf("SaveJSONToFile() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file failed: %v", err)
	}
	var restored Artifact
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() failed: %v", err)
	}
	if len(restored.Accepted) != len(art.Accepted) {
		t.Errorf("Accepted length mismatch: got %d, want %d", len(restored.Accepted), len(art.Accepted))
	}
}

func TestSaveJSONCompactToFile(t *testing.T) {
	art := testArtifact()
	path := filepath.Join(t.TempDir(), "artifact_compact.json")

	if err := SaveJSONCompactToFile(art, path); err != nil {
		t.Fatalf("SaveJSONCompactToFile() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file failed: %v", err)
	}
	if strings.Contains(string(data), "\n  ") {
		t.Error("saved compact file should not be indented")
	}
}
