// Package registry resolves model names to local artifact directories. A
// model directory holds model.json and tokenizer.json; the registry keeps a
// manifest per registered model under its base directory.
package registry

import "time"

type Manifest struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	AddedAt time.Time `json:"added_at"`
}
