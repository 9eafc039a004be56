package forecast

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Artifact documento versionado con todo lo necesario para predecir. Es el
// único estado mutable compartido del forecaster; se reemplaza completo en
// cada entrenamiento y se persiste como un solo JSON.
type Artifact struct {
	Version   string       `json:"version"`
	TrainedAt time.Time    `json:"trained_at"`
	Scaler    scalerParams `json:"scaler"`
	Members   []member     `json:"members"`
	MAE       float64      `json:"mae"`
	Samples   int          `json:"samples"`
}

// ArtifactStore persiste el artefacto en disco. La escritura usa archivo
// temporal + rename para que nunca quede un documento a medias.
type ArtifactStore struct {
	path string
}

// NewArtifactStore crea el store sobre la ruta del documento JSON.
func NewArtifactStore(path string) *ArtifactStore {
	return &ArtifactStore{path: path}
}

// Save escribe el artefacto de forma atómica.
func (s *ArtifactStore) Save(a *Artifact) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("crear directorio del modelo: %w", err)
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("serializar artefacto: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "model-*.json")
	if err != nil {
		return fmt.Errorf("crear archivo temporal: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("escribir artefacto: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cerrar archivo temporal: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publicar artefacto: %w", err)
	}
	return nil
}

// Load lee el artefacto persistido. Devuelve nil, nil si todavía no existe.
func (s *ArtifactStore) Load() (*Artifact, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer artefacto: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("deserializar artefacto: %w", err)
	}
	if len(a.Scaler.Mean) != numFeatures || len(a.Scaler.Std) != numFeatures {
		return nil, fmt.Errorf("artefacto incompatible: %d features, se esperaban %d", len(a.Scaler.Mean), numFeatures)
	}
	return &a, nil
}
