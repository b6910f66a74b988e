package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationsAreIdempotentDDL(t *testing.T) {
	names := map[string]bool{}
	for _, m := range Migrations() {
		assert.NotEmpty(t, m.Name)
		assert.NotNil(t, m.Up)
		assert.False(t, names[m.Name], "duplicate migration %s", m.Name)
		names[m.Name] = true
	}

	for _, q := range []string{createSessionsTable, createResultsTable, indexSessionsCreatedAt} {
		assert.True(t, strings.Contains(q, "IF NOT EXISTS"), q)
	}
}

func TestResultsReferenceSessions(t *testing.T) {
	assert.Contains(t, createResultsTable, "REFERENCES sessions (session_id)")
	assert.Contains(t, createResultsTable, "session_id    TEXT NOT NULL UNIQUE")
}
