package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type sampleRow struct {
	ID        string    `db:"id"`
	Name      *string   `db:"name"`
	Skipped   string    `db:"-"`
	NoTag     string
	CreatedAt time.Time `db:"created_at"`
	hidden    string    `db:"hidden"`
}

func TestStructTagValues(t *testing.T) {
	assert.Equal(t, []string{"id", "name", "created_at"}, StructTagValues(sampleRow{}))
	assert.Equal(t, []string{"id", "name", "created_at"}, StructTagValues(&sampleRow{}))
}

func TestStructToMap(t *testing.T) {
	row := &sampleRow{ID: "abc", Name: StringPtr("x"), hidden: "nope"}

	m := StructToMap(row)
	assert.Len(t, m, 3)
	assert.Equal(t, "abc", m["id"])
	assert.Equal(t, "x", *(m["name"].(*string)))
	assert.NotContains(t, m, "hidden")
}

func TestStructTagValuesPanicsOnNonStruct(t *testing.T) {
	assert.Panics(t, func() { StructTagValues("nope") })
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "15551234567", DigitsOnly("+1 (555) 123-4567"))
	assert.Equal(t, "", DigitsOnly("call me"))
}

func TestNonEmptyPtr(t *testing.T) {
	assert.Nil(t, NonEmptyPtr("   "))
	assert.Equal(t, "a b", *NonEmptyPtr(" a b "))
}
