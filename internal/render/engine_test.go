package render

import (
	"testing"
	"testing/fstest"

	"github.com/matthewbaird/jakartagen/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productContext() EntityContext {
	id := Field{Name: "id", Type: "Long", Accessor: "Id", IsID: true, Generated: true, DefaultGenerator: true}
	title := Field{
		Name: "title", Type: "String", Accessor: "Title",
		Annotations: []schema.Annotation{{
			Name: "jakarta.persistence.Column",
			Props: []schema.Property{
				{Key: "length", Value: schema.Num("120")},
				{Key: "nullable", Value: schema.Bool(false)},
			},
		}},
	}
	return EntityContext{
		Package: "com.acme.shop.entity",
		Class:   "Product",
		Imports: []string{"jakarta.persistence.Column", "jakarta.persistence.Entity", "jakarta.persistence.Id"},
		ID:      id,
		Fields:  []Field{id, title},
	}
}

func TestAnnotation(t *testing.T) {
	tests := []struct {
		name string
		in   schema.Annotation
		want string
	}{
		{"marker", schema.Annotation{Name: "jakarta.persistence.Lob"}, "@Lob"},
		{"empty props", schema.Annotation{Name: "a.b.Marker", Props: []schema.Property{}}, "@Marker"},
		{"string", schema.Annotation{Name: "jakarta.persistence.Column", Props: []schema.Property{
			{Key: "name", Value: schema.Str(`the "title"`)},
		}}, `@Column(name = "the \"title\"")`},
		{"mixed", schema.Annotation{Name: "jakarta.validation.constraints.Size", Props: []schema.Property{
			{Key: "min", Value: schema.Num("1")},
			{Key: "max", Value: schema.Num("80")},
			{Key: "message", Value: schema.Str("bad size")},
		}}, `@Size(min = 1, max = 80, message = "bad size")`},
		{"list", schema.Annotation{Name: "jakarta.persistence.Table", Props: []schema.Property{
			{Key: "indexes", Value: schema.List(schema.Str("a"), schema.Str("b"))},
			{Key: "flags", Value: schema.List(schema.Bool(true))},
		}}, `@Table(indexes = {"a", "b"}, flags = {true})`},
		{"decimal", schema.Annotation{Name: "x.DecimalMin", Props: []schema.Property{
			{Key: "value", Value: schema.Num("0.50")},
		}}, `@DecimalMin(value = 0.50)`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Annotation(tt.in))
		})
	}
}

func TestSimpleName(t *testing.T) {
	assert.Equal(t, "LocalDate", SimpleName("java.time.LocalDate"))
	assert.Equal(t, "String", SimpleName("String"))
	assert.Equal(t, "List<java.lang.String>", SimpleName("List<java.lang.String>"))
}

func TestImports(t *testing.T) {
	im := NewImports("com.acme.shop.entity")
	im.Add("java.util.List", "java.lang.String", "Long", "com.acme.shop.entity.Other", "java.util.List", "java.util.Map<String, String>")
	im.Add("jakarta.persistence.Entity")
	assert.Equal(t, []string{"jakarta.persistence.Entity", "java.util.List"}, im.List())
}

func TestRender_Entity(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	out, err := e.Render(TemplateEntity, productContext())
	require.NoError(t, err)

	assert.Contains(t, out, "package com.acme.shop.entity;\n\nimport jakarta.persistence.Column;\n")
	assert.Contains(t, out, "@Entity\npublic class Product implements Serializable {")
	assert.Contains(t, out, "    @Id\n    @GeneratedValue(strategy = GenerationType.IDENTITY)\n    private Long id;\n")
	assert.Contains(t, out, "    @Column(length = 120, nullable = false)\n    private String title;\n")
	assert.Contains(t, out, "public String getTitle() {")
	assert.NotContains(t, out, "@Table")
}

func TestRender_EntityWithTableAndRelations(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	ctx := productContext()
	ctx.Table = "products"
	ctx.Relations = []Relation{
		{Name: "tags", Target: "Tag", Kind: schema.ManyToMany, Collection: true, Accessor: "Tags"},
		{Name: "category", Target: "Category", Kind: schema.ManyToOne, Accessor: "Category"},
	}
	out, err := e.Render(TemplateEntity, ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "@Entity\n@Table(name = \"products\")\npublic class Product")
	assert.Contains(t, out, "    @ManyToMany\n    private List<Tag> tags = new ArrayList<>();")
	assert.Contains(t, out, "    @ManyToOne\n    private Category category;")
	assert.Contains(t, out, "public void setCategory(Category category) {")
}

func TestRender_Deterministic(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	first, err := e.Render(TemplateEntity, productContext())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.Render(TemplateEntity, productContext())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	other, err := New()
	require.NoError(t, err)
	fresh, err := other.Render(TemplateEntity, productContext())
	require.NoError(t, err)
	assert.Equal(t, first, fresh)
}

func TestRender_RepositoryVariants(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	ctx := RepositoryContext{
		Package:   "com.acme.shop.repository",
		Class:     "ProductRepository",
		ImplClass: "ProductRepositoryImpl",
		Entity:    "Product",
		IDType:    "Long",
		Kind:      schema.RepositoryCrud,
		Unit:      "defaultPU",
	}
	out, err := e.Render(TemplateRepository, ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "public interface ProductRepository {")
	assert.Contains(t, out, "Optional<Product> findById(Long id);")
	assert.Contains(t, out, "Product insert(Product entity);")

	out, err = e.Render(TemplateDataRepository, ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "public interface ProductRepository extends CrudRepository<Product, Long> {")

	ctx.Kind = schema.RepositoryBasic
	out, err = e.Render(TemplateDataRepository, ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "extends BasicRepository<Product, Long>")

	out, err = e.Render(TemplateRepositoryImpl, ctx)
	require.NoError(t, err)
	assert.Contains(t, out, `@PersistenceContext(unitName = "defaultPU")`)
	assert.NotContains(t, out, "insert(")

	ctx.Kind = schema.RepositoryCustom
	out, err = e.Render(TemplateRepository, ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "public interface ProductRepository {\n}\n")
}

func TestRender_NotFound(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	_, err = e.Render("nope.java", EntityContext{})
	var nf *TemplateNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope.java", nf.Name)
}

func TestRender_MissingKey(t *testing.T) {
	overrides := fstest.MapFS{
		"broken.txt.tmpl":     {Data: []byte("{{.Missing}}")},
		"map_lookup.txt.tmpl": {Data: []byte("{{.absent}}")},
	}
	e, err := NewWithOverrides(overrides)
	require.NoError(t, err)

	_, err = e.Render("broken.txt", EntityContext{})
	var re *TemplateRenderError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "broken.txt", re.Name)

	_, err = e.Render("map_lookup.txt", map[string]string{"present": "x"})
	require.ErrorAs(t, err, &re)
}

func TestOverridesReplaceBuiltins(t *testing.T) {
	overrides := fstest.MapFS{
		"rest_application.java.tmpl": {Data: []byte("custom {{.Class}}")},
	}
	e, err := NewWithOverrides(overrides)
	require.NoError(t, err)

	out, err := e.Render(TemplateRestApplication, RestApplicationContext{Class: "Api"})
	require.NoError(t, err)
	assert.Equal(t, "custom Api", out)
	assert.True(t, e.Has(TemplateEntity))
}
