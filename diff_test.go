package htmlelements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffInitialRenderPatchesEverything(t *testing.T) {
	next, err := RenderSections(DefaultState(), DefaultContent())
	require.NoError(t, err)

	patches := Diff(Sections{}, next)
	var ids []string
	for _, p := range patches {
		ids = append(ids, p.ID)
		assert.NotEmpty(t, p.HTML)
	}
	assert.Equal(t, []string{"text", "media", "forms", "semantic", "others", "note"}, ids)
}

func TestDiffOnlyFormsChange(t *testing.T) {
	c := DefaultContent()
	prev, err := RenderSections(DefaultState(), c)
	require.NoError(t, err)

	next, err := RenderSections(DefaultState().WithText("typed"), c)
	require.NoError(t, err)

	patches := Diff(prev, next)
	require.Len(t, patches, 1)
	assert.Equal(t, SectionForms, patches[0].ID)
	assert.Contains(t, patches[0].HTML, `value="typed"`)
}

func TestDiffNoChange(t *testing.T) {
	c := DefaultContent()
	s := DefaultState()
	prev, err := RenderSections(s, c)
	require.NoError(t, err)

	next, err := RenderSections(s, c)
	require.NoError(t, err)

	assert.Empty(t, Diff(prev, next))
}
