package gen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen"
)

func TestConfigError(t *testing.T) {
	t.Run("Error message with value", func(t *testing.T) {
		err := NewConfigError("Dialect", "oracle", "unsupported dialect")

		assert.Contains(t, err.Error(), "crudgen: config error")
		assert.Contains(t, err.Error(), "Dialect")
		assert.Contains(t, err.Error(), "oracle")
		assert.Contains(t, err.Error(), "unsupported dialect")
	})

	t.Run("Error message without value", func(t *testing.T) {
		err := NewConfigError("Module", nil, "cannot be empty")

		assert.Contains(t, err.Error(), "Module")
		assert.NotContains(t, err.Error(), "value:")
	})

	t.Run("Is matches ErrInvalidConfig", func(t *testing.T) {
		err := NewConfigError("Module", nil, "missing")
		assert.True(t, errors.Is(err, ErrInvalidConfig))
		assert.True(t, IsConfigError(fmt.Errorf("wrapped: %w", err)))
		assert.False(t, IsConfigError(errors.New("other")))
	})
}

func TestGenerationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("bad template")
		err := NewGenerationError(KindEntity, "BlogPost", "internal/models/blog_post.go", "cannot render", cause)

		assert.Contains(t, err.Error(), "crudgen: generation error")
		assert.Contains(t, err.Error(), "in entity")
		assert.Contains(t, err.Error(), "for BlogPost")
		assert.Contains(t, err.Error(), "file: internal/models/blog_post.go")
		assert.Contains(t, err.Error(), "cannot render")
		assert.Contains(t, err.Error(), "bad template")
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("io error")
		err := NewGenerationError(KindFactory, "", "", "", cause)

		assert.Equal(t, cause, err.Unwrap())
		assert.True(t, errors.Is(err, cause))
		assert.True(t, errors.Is(err, ErrGenerationFailed))
	})

	t.Run("IsGenerationError helper", func(t *testing.T) {
		err := NewGenerationError(KindRoutes, "Post", "", "", nil)
		assert.True(t, IsGenerationError(err))
		assert.False(t, IsGenerationError(errors.New("other")))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		err := NewValidationError("Post", "title", "", "empty type", nil)

		assert.Contains(t, err.Error(), "crudgen: validation error")
		assert.Contains(t, err.Error(), "on Post")
		assert.Contains(t, err.Error(), "field title")
		assert.Contains(t, err.Error(), "empty type")
	})

	t.Run("Wraps field errors", func(t *testing.T) {
		cause := crudgen.NewFieldError("title", "empty type")
		err := NewValidationError("Post", "title", nil, "", cause)

		assert.True(t, errors.Is(err, ErrValidationFailed))
		assert.True(t, errors.Is(err, crudgen.ErrInvalidField))
		assert.True(t, crudgen.IsFieldError(err))
	})

	t.Run("IsValidationError helper", func(t *testing.T) {
		err := NewValidationError("Post", "", nil, "test", nil)
		assert.True(t, IsValidationError(err))
		assert.False(t, IsValidationError(errors.New("other")))
	})
}

func TestErrorTypeChecking(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isConfig bool
		isGen    bool
		isVal    bool
	}{
		{
			name:     "ConfigError",
			err:      NewConfigError("Module", nil, ""),
			isConfig: true,
		},
		{
			name:  "GenerationError",
			err:   NewGenerationError(KindEntity, "", "", "", nil),
			isGen: true,
		},
		{
			name:  "ValidationError",
			err:   NewValidationError("Post", "", nil, "", nil),
			isVal: true,
		},
		{
			name: "Other error",
			err:  errors.New("other"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isConfig, IsConfigError(tt.err))
			assert.Equal(t, tt.isGen, IsGenerationError(tt.err))
			assert.Equal(t, tt.isVal, IsValidationError(tt.err))
		})
	}
}

func TestErrorsAs(t *testing.T) {
	err := fmt.Errorf("generate: %w", NewGenerationError(KindMigration, "Post", "db/migrations/x.sql", "failed", nil))
	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, KindMigration, genErr.Kind)
	assert.Equal(t, "db/migrations/x.sql", genErr.File)
}
