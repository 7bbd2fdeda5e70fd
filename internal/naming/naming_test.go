package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWords(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"BlogPost", []string{"Blog", "Post"}},
		{"blog_post", []string{"blog", "post"}},
		{"blog-post", []string{"blog", "post"}},
		{"blog post", []string{"blog", "post"}},
		{"HTTPCode", []string{"HTTP", "Code"}},
		{"userID", []string{"user", "ID"}},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Words(tt.input))
		})
	}
}

func TestSnake(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Username", "username"},
		{"BlogPost", "blog_post"},
		{"HTTPCode", "http_code"},
		{"UserID", "user_id"},
		{"already_snake", "already_snake"},
		{"blog-post", "blog_post"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Snake(tt.input))
		})
	}
}

func TestPascal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"blog_post", "BlogPost"},
		{"author_id", "AuthorID"},
		{"http_code", "HTTPCode"},
		{"avatar_url", "AvatarURL"},
		{"BlogPost", "BlogPost"},
		{"blogPost", "BlogPost"},
		{"title", "Title"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Pascal(tt.input))
		})
	}
}

func TestCamel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"blog_post", "blogPost"},
		{"BlogPost", "blogPost"},
		{"author_id", "authorID"},
		{"title", "title"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Camel(tt.input))
		})
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"post", "posts"},
		{"Post", "Posts"},
		{"BlogPost", "BlogPosts"},
		{"blog_post", "blog_posts"},
		{"category", "categories"},
		{"Category", "Categories"},
		{"child", "children"},
		{"person", "people"},
		{"box", "boxes"},
		{"human", "humans"},
		{"criterion", "criteria"},
		{"equipment", "equipment"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Plural(tt.input))
		})
	}
}

func TestSingular(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"posts", "post"},
		{"categories", "category"},
		{"children", "child"},
		{"people", "person"},
		{"BlogPosts", "BlogPost"},
		{"author", "author"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Singular(tt.input))
		})
	}
}
