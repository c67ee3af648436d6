package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate", "seed-admin"}, names)

	seed, _, err := root.Find([]string{"seed-admin"})
	assert.NoError(t, err)
	assert.NotNil(t, seed.Flags().Lookup("password"))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
