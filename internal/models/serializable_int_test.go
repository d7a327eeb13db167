package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializableIntText(t *testing.T) {
	var a SerializableInt = 14400
	data, err := a.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "14400", string(data))
	var b SerializableInt
	err = b.UnmarshalText(data)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSerializableIntInvalidText(t *testing.T) {
	var b SerializableInt
	err := b.UnmarshalText([]byte("not-a-number"))
	assert.Error(t, err)
}
