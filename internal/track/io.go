package track

import (
	"os"

	"gopkg.in/yaml.v3"
)

// WriteTake writes a take to a YAML file
func WriteTake(take *Take, path string) error {
	data, err := yaml.Marshal(take)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadTake reads a take from a YAML file
func ReadTake(path string) (*Take, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var take Take
	if err := yaml.Unmarshal(data, &take); err != nil {
		return nil, err
	}

	return &take, nil
}

// WriteTracks writes baked tracks to a YAML file
func WriteTracks(tracks []Track, path string) error {
	file := TrackFile{
		Version: "1.0",
		Tracks:  tracks,
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadTracks reads baked tracks from a YAML file
func ReadTracks(path string) ([]Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file TrackFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return file.Tracks, nil
}
