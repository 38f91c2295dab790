package testdb

import (
	"testing"

	"github.com/phrazzld/todo-api/internal/platform/sqlstore"
	"github.com/stretchr/testify/assert"
)

func TestGetTestDatabaseURL(t *testing.T) {
	t.Run("database url wins", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://a")
		t.Setenv("TODOAPI_TEST_DB_URL", "postgres://b")
		assert.Equal(t, "postgres://a", GetTestDatabaseURL())
		assert.True(t, IsIntegrationTestEnvironment())
	})

	t.Run("fallback", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("TODOAPI_TEST_DB_URL", "postgres://b")
		assert.Equal(t, "postgres://b", GetTestDatabaseURL())
	})

	t.Run("unset", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("TODOAPI_TEST_DB_URL", "")
		assert.False(t, IsIntegrationTestEnvironment())
	})
}

func TestDialect(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	assert.Equal(t, sqlstore.Postgres, Dialect(t))

	t.Setenv("DATABASE_DRIVER", "mysql")
	assert.Equal(t, sqlstore.MySQL, Dialect(t))
}
