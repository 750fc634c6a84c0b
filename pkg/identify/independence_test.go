package identify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/causaltower/pkg/admg"
	"github.com/matzehuels/causaltower/pkg/pretty"
)

func TestLocalMarkovStudent(t *testing.T) {
	g := student(t)
	cis, ok := LocalMarkov(g)
	require.True(t, ok)
	// Every node's non-descendants strictly exceed its parents here.
	require.Equal(t, 5, cis.Len())

	want := []string{
		"(D⊥I,S)",
		"(G⊥S|D,I)",
		"(I⊥D)",
		"(L⊥D,I,S|G)",
		"(S⊥D,G,L|I)",
	}
	var got []string
	for _, c := range cis.Items() {
		got = append(got, pretty.Text.CondInd(c))
	}
	assert.ElementsMatch(t, want, got)
}

func TestLocalMarkovSymptoms(t *testing.T) {
	cis, ok := LocalMarkov(symptoms(t))
	require.True(t, ok)
	var got []string
	for _, c := range cis.Items() {
		got = append(got, pretty.Text.CondInd(c))
	}
	assert.ElementsMatch(t, []string{
		"(Allergy⊥Flu)",
		"(Flu⊥Allergy)",
		"(Headache⊥Allergy,Flu,Nose|Sinus)",
		"(Nose⊥Allergy,Flu,Headache|Sinus)",
	}, got)
}

func TestLocalMarkovNotApplicable(t *testing.T) {
	cis, ok := LocalMarkov(frontDoor(t))
	assert.False(t, ok)
	assert.Nil(t, cis)
}

func TestDSeparate(t *testing.T) {
	g := student(t)

	sep, err := DSeparate(g, set("D"), set("I", "S"), nil)
	require.NoError(t, err)
	require.True(t, sep.Applicable)
	require.True(t, sep.Separated)
	assert.Equal(t, "(D⊥I,S)", pretty.Text.CondInd(*sep.Statement))

	sep, err = DSeparate(g, set("D"), set("I"), set("L"))
	require.NoError(t, err)
	assert.True(t, sep.Applicable)
	assert.False(t, sep.Separated)
	assert.Nil(t, sep.Statement)

	sep, err = DSeparate(frontDoor(t), set("X"), set("Y"), set("M"))
	require.NoError(t, err)
	assert.False(t, sep.Applicable)

	_, err = DSeparate(g, set("D"), set("Q"), nil)
	assert.ErrorIs(t, err, admg.ErrUnknownNode)
}

func TestMSeparate(t *testing.T) {
	g := frontDoor(t)
	sep, err := MSeparate(g, set("X"), set("Y"), set("M"))
	require.NoError(t, err)
	assert.True(t, sep.Applicable)
	assert.False(t, sep.Separated, "X <-> Y is never blocked")

	g = build(t, [][2]string{{"A", "B"}}, [][2]string{{"B", "C"}})
	sep, err = MSeparate(g, set("A"), set("C"), nil)
	require.NoError(t, err)
	assert.True(t, sep.Separated)
	assert.Equal(t, "(A⊥C)", pretty.Text.CondInd(*sep.Statement))
}
