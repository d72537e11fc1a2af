package generate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/jakartagen/internal/descriptor"
	"github.com/matthewbaird/jakartagen/internal/naming"
	"github.com/matthewbaird/jakartagen/internal/schema"
	"github.com/matthewbaird/jakartagen/internal/syncstate"
)

const threeEntities = `{"entities":[
	{"name":"Customer","fields":[{"name":"email","type":"String"}]},
	{"name":"Invoice","fields":[{"name":"total"}]},
	{"name":"Supplier","fields":[{"name":"vat","type":"String"}]}
]}`

type pipelineFixture struct {
	root  string
	state *syncstate.Store
	p     *Pipeline
}

func newPipelineFixture(t *testing.T, opts Options) *pipelineFixture {
	t.Helper()
	root := t.TempDir()
	parser, err := schema.NewParser()
	require.NoError(t, err)
	state, err := syncstate.Open(filepath.Join(root, syncstate.DefaultPath))
	require.NoError(t, err)
	g := newTestGenerator(t, root, opts)
	return &pipelineFixture{
		root:  root,
		state: state,
		p:     NewPipeline(parser, g, state, root, quietLogger()),
	}
}

func (f *pipelineFixture) persistenceClasses(t *testing.T) []string {
	t.Helper()
	doc, err := descriptor.Load(filepath.Join(f.root, DefaultPersistencePath))
	require.NoError(t, err)
	u, err := descriptor.PersistenceUnit(doc, "defaultPU")
	require.NoError(t, err)
	var out []string
	for _, c := range u.SelectElements("class") {
		out = append(out, c.Text())
	}
	return out
}

func TestPipeline_Product(t *testing.T) {
	f := newPipelineFixture(t, testOptions())
	r, err := f.p.Run(context.Background(), Request{Schema: []byte(productJSON)})
	require.NoError(t, err)
	assert.Equal(t, StateDone, r.State)
	assert.False(t, r.Failed())
	assert.NotEmpty(t, r.RunID)

	require.Len(t, r.Entities, 1)
	assert.Equal(t, "Product", r.Entities[0].Name)
	assert.Len(t, r.Entities[0].Artifacts, 9)
	require.Len(t, r.Shared, 1)
	assert.Equal(t, 10, r.Count(StatusWritten))

	assert.FileExists(t, filepath.Join(f.root, "src/main/java/com/acme/shop/entity/Product.java"))
	assert.FileExists(t, filepath.Join(f.root, "src/main/java/com/acme/shop/repository/ProductRepository.java"))
	assert.Equal(t, []string{"com.acme.shop.entity.Product"}, f.persistenceClasses(t))

	reopened, err := syncstate.Open(filepath.Join(f.root, syncstate.DefaultPath))
	require.NoError(t, err)
	assert.Equal(t, r.RunID, reopened.LastRun())
	assert.True(t, reopened.WasApplied(syncstate.CategoryEntity, "defaultPU:com.acme.shop.entity.Product"))
}

func TestPipeline_Rerun(t *testing.T) {
	f := newPipelineFixture(t, testOptions())
	_, err := f.p.Run(context.Background(), Request{Schema: []byte(productJSON)})
	require.NoError(t, err)

	r, err := f.p.Run(context.Background(), Request{Schema: []byte(productJSON)})
	require.NoError(t, err)
	assert.Equal(t, 10, r.Count(StatusUnchanged))
	assert.Empty(t, r.Merges)
	assert.Equal(t, []string{"com.acme.shop.entity.Product"}, f.persistenceClasses(t))
}

func TestPipeline_PartialFailure(t *testing.T) {
	f := newPipelineFixture(t, testOptions())
	r, err := f.p.Run(context.Background(), Request{Schema: []byte(threeEntities)})
	require.NoError(t, err)
	assert.Equal(t, StateDone, r.State)
	assert.True(t, r.Failed())

	require.Len(t, r.Entities, 3)
	assert.True(t, r.Entities[0].OK())
	assert.False(t, r.Entities[1].OK())
	assert.True(t, r.Entities[2].OK())
	assert.Equal(t, "Invoice", r.Entities[1].Name)

	var se *schema.SchemaError
	require.ErrorAs(t, r.Err(), &se)
	assert.Equal(t, 2, se.Index)

	assert.FileExists(t, filepath.Join(f.root, "src/main/java/com/acme/shop/entity/Customer.java"))
	assert.NoFileExists(t, filepath.Join(f.root, "src/main/java/com/acme/shop/entity/Invoice.java"))
	assert.FileExists(t, filepath.Join(f.root, "src/main/java/com/acme/shop/entity/Supplier.java"))
	assert.Equal(t, []string{
		"com.acme.shop.entity.Customer",
		"com.acme.shop.entity.Supplier",
	}, f.persistenceClasses(t))
}

func TestPipeline_InvalidDocument(t *testing.T) {
	f := newPipelineFixture(t, testOptions())
	r, err := f.p.Run(context.Background(), Request{Schema: []byte(`[1, 2]`)})
	require.Error(t, err)
	var se *schema.SchemaError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, StateFailed, r.State)

	entries, err := os.ReadDir(f.root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPipeline_MissingCoordinates(t *testing.T) {
	opts := testOptions()
	opts.Coordinates = naming.Coordinates{}
	f := newPipelineFixture(t, opts)
	r, err := f.p.Run(context.Background(), Request{Schema: []byte(productJSON)})
	require.ErrorIs(t, err, descriptor.ErrCoordinateNotFound)
	assert.Equal(t, StateFailed, r.State)
}

func TestPipeline_Cancelled(t *testing.T) {
	f := newPipelineFixture(t, testOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := f.p.Run(ctx, Request{Schema: []byte(productJSON)})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, r.State)
}

func TestPipeline_UnknownUnit(t *testing.T) {
	f := newPipelineFixture(t, testOptions())
	existing := descriptor.NewPersistence("reportingPU", "3.0")
	require.NoError(t, descriptor.Save(existing, filepath.Join(f.root, DefaultPersistencePath)))

	r, err := f.p.Run(context.Background(), Request{Schema: []byte(productJSON)})
	require.NoError(t, err)
	assert.True(t, r.Failed())
	require.Len(t, r.Merges, 1)
	var nf *descriptor.PersistenceUnitNotFoundError
	require.ErrorAs(t, r.Merges[0].Err, &nf)
	assert.Equal(t, []string{"reportingPU"}, nf.Available)
	assert.False(t, f.state.WasApplied(syncstate.CategoryEntity, "defaultPU:com.acme.shop.entity.Product"))
}

func TestPipeline_DescriptorsOnly(t *testing.T) {
	f := newPipelineFixture(t, testOptions())
	r, err := f.p.Run(context.Background(), Request{Schema: []byte(productJSON), DescriptorsOnly: true})
	require.NoError(t, err)
	assert.Empty(t, r.Artifacts())
	assert.NoDirExists(t, filepath.Join(f.root, "src", "main", "java"))
	assert.Equal(t, []string{"com.acme.shop.entity.Product"}, f.persistenceClasses(t))
}

func TestPipeline_SchemaFile(t *testing.T) {
	f := newPipelineFixture(t, testOptions())
	path := filepath.Join(t.TempDir(), "entities.json")
	require.NoError(t, os.WriteFile(path, []byte(productJSON), 0o644))

	r, err := f.p.Run(context.Background(), Request{SchemaPath: path})
	require.NoError(t, err)
	assert.False(t, r.Failed())
}
