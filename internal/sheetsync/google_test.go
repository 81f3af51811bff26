package sheetsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeDriveQuery(t *testing.T) {
	assert.Equal(t, "Banking Transactions", escapeDriveQuery("Banking Transactions"))
	assert.Equal(t, `Dave\'s Budget`, escapeDriveQuery("Dave's Budget"))
	assert.Equal(t, `a\\b\'c`, escapeDriveQuery(`a\b'c`))
}

func TestA1Range(t *testing.T) {
	assert.Equal(t, "'Master'!A2", a1Range("Master", "A2"))
	assert.Equal(t, "'Dave''s Picks'!A:A", a1Range("Dave's Picks", "A:A"))
}

func TestDocumentURL(t *testing.T) {
	assert.Equal(t, "https://docs.google.com/spreadsheets/d/abc123", DocumentURL("abc123"))
}
