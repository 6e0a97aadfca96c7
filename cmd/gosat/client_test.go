package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barnybug/gosat/pubsub"
)

func TestConfirmFields(t *testing.T) {
	fields, err := confirmFields([]string{"3", "yes", "hello", "world"}, "")
	require.NoError(t, err)
	assert.Equal(t, pubsub.Fields{"id": 3, "confirm": "yes", "text": "hello world"}, fields)

	fields, err = confirmFields([]string{"11", "help"}, "02")
	require.NoError(t, err)
	assert.Equal(t, pubsub.Fields{"id": 11, "confirm": "help", "data": "02"}, fields)

	_, err = confirmFields([]string{"x", "yes"}, "")
	assert.Error(t, err)
	_, err = confirmFields([]string{"1", "maybe"}, "")
	assert.Error(t, err)
	_, err = confirmFields([]string{"1", "yes"}, "zz")
	assert.Error(t, err)
}

func TestEventFields(t *testing.T) {
	owner = "cp0"
	fields, err := eventFields([]string{"language_selection", "language=de"})
	require.NoError(t, err)
	assert.Equal(t, pubsub.Fields{"event": "language_selection", "language": "de", "owner": "cp0"}, fields)

	fields, err = eventFields([]string{"user_activity", "owner=cp1"})
	require.NoError(t, err)
	assert.Equal(t, "cp1", fields["owner"])

	_, err = eventFields([]string{"earthquake"})
	assert.Error(t, err)
}

func TestCommands(t *testing.T) {
	registerServices()
	root := rootCmd()
	names := []string{}
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"run", "query", "confirm", "display", "event", "menu", "reset"})
}
