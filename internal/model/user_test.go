package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestUserEmailColumnIsCaseSensitiveAndUnique(t *testing.T) {
	s, err := schema.Parse(&User{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	field := s.LookUpField("email")
	require.NotNil(t, field)

	assert.Contains(t, string(field.DataType), "COLLATE utf8mb4_bin")
	assert.Contains(t, field.TagSettings, "UNIQUEINDEX")
	assert.True(t, field.NotNull)
}
