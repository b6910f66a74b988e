package model

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

const (
	QuestionsSchema  = "questions.schema.json"
	EvaluationSchema = "evaluation.schema.json"
)

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*gojsonschema.Schema{}
)

func loadSchema(name string) (*gojsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	if s, ok := schemaCache[name]; ok {
		return s, nil
	}
	b, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		return nil, err
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	schemaCache[name] = s
	return s, nil
}

// ValidateJSON validates raw JSON against one of the embedded schemas.
func ValidateJSON(schema string, raw []byte) error {
	s, err := loadSchema(schema)
	if err != nil {
		return err
	}

	res, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	// collect errors
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}
