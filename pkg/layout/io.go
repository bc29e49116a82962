package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// Marshal serializes a layout tree to pretty-printed JSON.
func Marshal(root *Node) ([]byte, error) {
	return json.MarshalIndent(root, "", "  ")
}

// Unmarshal decodes a layout tree from JSON.
func Unmarshal(data []byte) (*Node, error) {
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}
	if root.Path == "" {
		return nil, fmt.Errorf("layout must have a root path")
	}
	return &root, nil
}

// WriteFile writes a layout tree to a JSON file.
func WriteFile(root *Node, path string) error {
	data, err := Marshal(root)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a layout tree from a JSON file.
func ReadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
