package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseArgs(t *testing.T) {
	command, params := ParseArgs([]string{"user_activity", "owner=cp1", "data_length=12"})
	assert.Equal(t, "user_activity", command)
	assert.Equal(t, map[string]interface{}{"owner": "cp1", "data_length": float64(12)}, params)
}

func TestKeywordArgs(t *testing.T) {
	assert.Equal(t, map[string]string{"": "yes", "id": "3"}, KeywordArgs([]string{"id=3", "yes"}))
}
