package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string `json:"name" validate:"required,min=2"`
	Email  string `json:"email" validate:"required,email"`
	Color  string `json:"color" validate:"oneof=red green"`
	Note   string `validate:"max=5"`
	Hidden string `json:"-"`
}

func TestStruct_Valid(t *testing.T) {
	fields, err := Struct(sample{Name: "ok", Email: "a@b.co", Color: "red"})
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestStruct_FieldErrors(t *testing.T) {
	fields, err := Struct(sample{Name: "x", Email: "nope", Color: "blue", Note: "too long"})
	require.NoError(t, err)
	require.Len(t, fields, 4)

	tests := []struct {
		field   string
		rule    string
		message string
	}{
		{"name", "min", "must be at least 2 characters"},
		{"email", "email", "must be a valid email address"},
		{"color", "oneof", "must be one of: red, green"},
		{"note", "max", "must be at most 5 characters"},
	}

	for i, tt := range tests {
		assert.Equal(t, tt.field, fields[i].Field)
		assert.Equal(t, tt.rule, fields[i].Rule)
		assert.Equal(t, tt.message, fields[i].Message)
	}

	assert.Equal(t, "name: must be at least 2 characters", fields[0].Error())
}

func TestStruct_Required(t *testing.T) {
	fields, err := Struct(sample{Color: "green"})
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "is required", fields[0].Message)
	assert.Equal(t, "is required", fields[1].Message)
}

func TestStruct_NotAStruct(t *testing.T) {
	_, err := Struct("nope")
	assert.Error(t, err)
}
