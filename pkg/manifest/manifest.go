// Package manifest reads the browser manifest used by the test runner
// (test/resources/browser_manifests/browser_manifest.json).
package manifest

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
)

const schema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["name", "path"],
		"properties": {
			"name": {"type": "string"},
			"path": {"type": "string"}
		}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(schema)

// Browser is a single manifest entry
type Browser struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Manifest lists the browsers available on this machine
type Manifest []Browser

// Parse decodes and validates a manifest document
func Parse(data []byte) (Manifest, error) {
	var result Manifest
	err := json.Unmarshal(data, &result)
	if err != nil {
		var typeErr *json.UnmarshalTypeError
		if !eris.As(err, &typeErr) {
			return nil, err
		}
	}

	validation, verr := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if verr != nil {
		return nil, eris.Wrap(verr, "failed to validate manifest")
	}

	if !validation.Valid() {
		msgs := make([]string, len(validation.Errors()))
		for idx, desc := range validation.Errors() {
			msgs[idx] = desc.String()
		}
		return nil, eris.New(strings.Join(msgs, "\n"))
	}

	if err != nil {
		return nil, err
	}
	return result, nil
}

// Load reads and parses the manifest at path
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to read %s", path)
	}

	return Parse(data)
}

// Find returns the first browser with the given name
func (m Manifest) Find(name string) (Browser, bool) {
	for _, browser := range m {
		if browser.Name == name {
			return browser, true
		}
	}

	return Browser{}, false
}

// Count returns the number of entries with the given name
func (m Manifest) Count(name string) int {
	count := 0
	for _, browser := range m {
		if browser.Name == name {
			count++
		}
	}
	return count
}

// ResolveExecutable turns a manifest path into the binary to run. On macOS
// entries may point at the application bundle.
func ResolveExecutable(path, goos string) string {
	if goos == "darwin" && strings.Contains(path, ".app") {
		return path + "/Contents/MacOS/Google Chrome"
	}
	return path
}
