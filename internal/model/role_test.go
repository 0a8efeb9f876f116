package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleRank(t *testing.T) {
	assert.Equal(t, 0, RoleRank(RoleReadonly))
	assert.Equal(t, 1, RoleRank(RoleUser))
	assert.Equal(t, 2, RoleRank(RoleAdmin))
	assert.Equal(t, -1, RoleRank("owner"))
	assert.Equal(t, -1, RoleRank(""))
	assert.Equal(t, -1, RoleRank("ADMIN")) // roles are stored lower case
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleReadonly))
	assert.True(t, ValidRole(RoleUser))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("superuser"))
}

func TestRoleAtLeast(t *testing.T) {
	// admin satisfies everything
	assert.True(t, RoleAtLeast(RoleAdmin, RoleReadonly))
	assert.True(t, RoleAtLeast(RoleAdmin, RoleUser))
	assert.True(t, RoleAtLeast(RoleAdmin, RoleAdmin))

	// user satisfies user and readonly
	assert.True(t, RoleAtLeast(RoleUser, RoleReadonly))
	assert.True(t, RoleAtLeast(RoleUser, RoleUser))
	assert.False(t, RoleAtLeast(RoleUser, RoleAdmin))

	// readonly only satisfies readonly
	assert.True(t, RoleAtLeast(RoleReadonly, RoleReadonly))
	assert.False(t, RoleAtLeast(RoleReadonly, RoleUser))

	// unknown roles satisfy nothing
	assert.False(t, RoleAtLeast("", RoleReadonly))
	assert.False(t, RoleAtLeast("guest", RoleReadonly))
}

func TestValidSampleType(t *testing.T) {
	for _, s := range SampleTypes {
		assert.True(t, ValidSampleType(s), s)
	}
	assert.False(t, ValidSampleType("dna"))
	assert.False(t, ValidSampleType(""))
	assert.False(t, ValidSampleType("Plasmid"))
}
