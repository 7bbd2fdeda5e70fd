package load

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/schema/edge"
	"github.com/syssam/crudgen/schema/field"
)

const postsScript = `-- +goose Up
CREATE TABLE "blog_posts" (
  "id" bigserial NOT NULL,
  "title" character varying(255) NOT NULL UNIQUE,
  "summary" character varying(120) NULL,
  "body" text NOT NULL,
  "views" integer NOT NULL DEFAULT 0,
  "rating" numeric(8,2) NULL,
  "published" boolean NOT NULL DEFAULT false,
  "status" character varying(255) NOT NULL DEFAULT 'draft'::character varying,
  "author_id" bigint NOT NULL,
  CONSTRAINT "blog_posts_author_id_foreign" FOREIGN KEY ("author_id") REFERENCES "authors" ("id") ON DELETE CASCADE,
  "deleted_at" timestamp NULL,
  "created_at" timestamp NULL,
  "updated_at" timestamp NULL,
  PRIMARY KEY ("id")
);
CREATE INDEX "blog_posts_views_index" ON "blog_posts" ("views");

-- +goose Down
DROP TABLE "blog_posts";
`

func TestExtract(t *testing.T) {
	tbl := Extract(postsScript, nil)
	require.NotNil(t, tbl)
	assert.Equal(t, "blog_posts", tbl.Name)
	assert.Equal(t, "BlogPost", tbl.Entity())
	assert.Equal(t, []string{"title", "summary", "body", "views", "rating", "published", "status", "author_id"}, field.Names(tbl.Fields))

	byName := make(map[string]*field.Spec)
	for _, f := range tbl.Fields {
		byName[f.Name] = f
	}

	title := byName["title"]
	assert.Equal(t, field.TypeString, title.Type)
	assert.True(t, title.Unique)
	assert.False(t, title.Nullable)
	assert.Nil(t, title.Length)

	summary := byName["summary"]
	assert.True(t, summary.Nullable)
	require.NotNil(t, summary.Length)
	assert.Equal(t, 120, *summary.Length)

	assert.Equal(t, field.TypeText, byName["body"].Type)

	views := byName["views"]
	assert.Equal(t, field.TypeInteger, views.Type)
	assert.True(t, views.Index)
	require.NotNil(t, views.Default)
	assert.Equal(t, "0", *views.Default)

	rating := byName["rating"]
	assert.Equal(t, field.TypeDecimal, rating.Type)
	require.NotNil(t, rating.Precision)
	assert.Equal(t, 8, *rating.Precision)

	assert.Equal(t, field.TypeBoolean, byName["published"].Type)
	assert.Equal(t, "false", *byName["published"].Default)
	assert.Equal(t, "draft", *byName["status"].Default)

	author := byName["author_id"]
	assert.Equal(t, field.TypeForeignID, author.Type)
	assert.Equal(t, &field.Foreign{RelatedEntity: "Author", RelatedTable: "authors"}, author.Foreign)

	assert.Equal(t, []edge.Hint{{Type: edge.BelongsTo, Related: "Author", Field: "author_id"}}, tbl.Relations)
}

func TestExtractForeignKeys(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		typ     field.Type
		related string
	}{
		{
			name:    "InlineReferences",
			script:  "CREATE TABLE comments (id INTEGER PRIMARY KEY, writer_id BIGINT NOT NULL REFERENCES users(id))",
			typ:     field.TypeForeignID,
			related: "User",
		},
		{
			name:    "SuffixOnly",
			script:  "CREATE TABLE comments (id INTEGER PRIMARY KEY, post_id BIGINT NOT NULL)",
			typ:     field.TypeBigInteger,
			related: "Post",
		},
		{
			name:    "MySQLConstraint",
			script:  "CREATE TABLE `comments` (\n`id` bigint unsigned NOT NULL AUTO_INCREMENT,\n`category_id` bigint unsigned NOT NULL,\nPRIMARY KEY (`id`),\nKEY `comments_category_id_index` (`category_id`),\nCONSTRAINT `fk` FOREIGN KEY (`category_id`) REFERENCES `categories` (`id`)\n) ENGINE=InnoDB;",
			typ:     field.TypeForeignID,
			related: "Category",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := Extract(tt.script, nil)
			require.NotNil(t, tbl)
			require.Len(t, tbl.Fields, 1)
			assert.Equal(t, tt.typ, tbl.Fields[0].Type)
			require.Len(t, tbl.Relations, 1)
			assert.Equal(t, edge.BelongsTo, tbl.Relations[0].Type)
			assert.Equal(t, tt.related, tbl.Relations[0].Related)
		})
	}
}

func TestExtractIndexes(t *testing.T) {
	tbl := Extract("CREATE TABLE tags (id integer, slug varchar(64) NOT NULL, name varchar(255) NOT NULL, UNIQUE (name));\nCREATE UNIQUE INDEX tags_slug ON tags (slug);", nil)
	require.NotNil(t, tbl)
	require.Len(t, tbl.Fields, 2)
	assert.True(t, tbl.Fields[0].Unique)
	assert.True(t, tbl.Fields[1].Unique)
	assert.Equal(t, 64, *tbl.Fields[0].Length)
}

func TestExtractNil(t *testing.T) {
	tests := []struct {
		name   string
		script string
		ignore []string
	}{
		{"Empty", "", nil},
		{"AlterOnly", "ALTER TABLE posts ADD COLUMN slug varchar(255);", nil},
		{"Ignored", "CREATE TABLE jobs (id bigint, payload text NOT NULL);", DefaultIgnoreTables},
		{"OnlyAutoColumns", "CREATE TABLE pings (id bigint, created_at timestamp, updated_at timestamp);", nil},
		{"Unbalanced", "CREATE TABLE posts (id bigint, title varchar(255)", nil},
		{"Garbage", "this is not sql at all (", nil},
		{"CommentedOut", "-- CREATE TABLE posts (title text);\n/* CREATE TABLE posts (title text); */", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Extract(tt.script, tt.ignore))
		})
	}
}

func TestExtractDedup(t *testing.T) {
	tbl := Extract("CREATE TABLE posts (title text NOT NULL, title text NOT NULL, title varchar(10), author_id bigint, author_id bigint);", nil)
	require.NotNil(t, tbl)
	assert.Equal(t, []string{"title", "author_id"}, field.Names(tbl.Fields))
	assert.Equal(t, field.TypeText, tbl.Fields[0].Type)
	assert.Len(t, tbl.Relations, 1)
}

func TestExtractDownSectionIgnored(t *testing.T) {
	script := "-- migrate:up\nALTER TABLE posts ADD COLUMN x int;\n-- migrate:down\nCREATE TABLE posts (title text);\n"
	assert.Nil(t, Extract(script, nil))
}

func TestExtractSchemaQualified(t *testing.T) {
	tbl := Extract(`CREATE TABLE IF NOT EXISTS public.orders (total double precision NOT NULL, placed_at timestamp with time zone, meta jsonb)`, nil)
	require.NotNil(t, tbl)
	assert.Equal(t, "orders", tbl.Name)
	require.Len(t, tbl.Fields, 3)
	assert.Equal(t, field.TypeDouble, tbl.Fields[0].Type)
	assert.Equal(t, field.TypeTimestamp, tbl.Fields[1].Type)
	assert.True(t, tbl.Fields[1].Nullable)
	assert.Equal(t, field.TypeJSONB, tbl.Fields[2].Type)
}
