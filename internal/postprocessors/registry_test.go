package postprocessors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/postprocessors/chunker"
)

type namedProcessor struct {
	name string
	size int
}

func (m *namedProcessor) Name() string { return m.name }
func (m *namedProcessor) Process(_ context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	return chunks, nil
}

func builderFor(name string) BuilderFunc {
	return func(s domain.ChunkerSettings) (driven.PostProcessor, error) {
		return &namedProcessor{name: name, size: s.Size}, nil
	}
}

func TestRegistry_RegisterAndHas(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Has("lowercase"))
	assert.Empty(t, r.Names())

	r.Register("lowercase", builderFor("lowercase"))

	assert.True(t, r.Has("lowercase"))
}

func TestRegistry_Build_PassesSettings(t *testing.T) {
	r := NewRegistry()
	r.Register("probe", builderFor("probe"))

	proc, err := r.Build("probe", domain.ChunkerSettings{Size: 42, Overlap: 1})

	require.NoError(t, err)
	assert.Equal(t, 42, proc.(*namedProcessor).size)
}

func TestRegistry_Build_Unknown(t *testing.T) {
	_, err := NewRegistry().Build("missing", domain.ChunkerSettings{})

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestRegistry_BuildAll_RegistrationOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("zeta", builderFor("zeta"))
	r.Register("alpha", builderFor("alpha"))
	r.Register("zeta", builderFor("zeta-v2"))

	procs, err := r.BuildAll(domain.ChunkerSettings{})

	require.NoError(t, err)
	require.Len(t, procs, 2)
	assert.Equal(t, "zeta-v2", procs[0].Name(), "re-registering keeps the position")
	assert.Equal(t, "alpha", procs[1].Name())
	assert.Equal(t, []string{"alpha", "zeta"}, r.Names())
}

func TestRegisterDefaults_Chunker(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	proc, err := r.Build(ChunkerName, domain.ChunkerSettings{Size: 200, Overlap: 20})

	require.NoError(t, err)
	c, ok := proc.(*chunker.Processor)
	require.True(t, ok, "got %T", proc)
	assert.Equal(t, 200, c.ChunkSize())
	assert.Equal(t, 20, c.Overlap())
}

func TestRegisterDefaults_InvalidChunkSettings(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	tests := []domain.ChunkerSettings{
		{Size: 10, Overlap: 10},
		{Size: 0, Overlap: 0},
		{Size: 10, Overlap: -1},
	}
	for _, s := range tests {
		_, err := r.Build(ChunkerName, s)
		assert.ErrorIs(t, err, domain.ErrConfiguration, "%+v", s)
	}
}
