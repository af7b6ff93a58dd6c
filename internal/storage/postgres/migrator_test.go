package postgres

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func script(sql string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(sql)} }

func TestReadMigrations(t *testing.T) {
	tests := []struct {
		name    string
		files   fstest.MapFS
		wantErr string
		want    []int64
	}{
		{
			name: "pairs sorted by version",
			files: fstest.MapFS{
				"sql/migrations/0002_payments.up.sql":   script("CREATE TABLE b (id INT);"),
				"sql/migrations/0002_payments.down.sql": script("DROP TABLE b;"),
				"sql/migrations/0001_init.up.sql":       script("CREATE TABLE a (id INT);"),
				"sql/migrations/0001_init.down.sql":     script("DROP TABLE a;"),
			},
			want: []int64{1, 2},
		},
		{
			name: "missing down",
			files: fstest.MapFS{
				"sql/migrations/0001_init.up.sql": script("CREATE TABLE a (id INT);"),
			},
			wantErr: "needs both up and down",
		},
		{
			name: "bad file name",
			files: fstest.MapFS{
				"sql/migrations/menu.sql": script("SELECT 1;"),
			},
			wantErr: "invalid migration file name",
		},
		{
			name: "blank script",
			files: fstest.MapFS{
				"sql/migrations/0001_init.up.sql":   script("  \n"),
				"sql/migrations/0001_init.down.sql": script("DROP TABLE a;"),
			},
			wantErr: "is empty",
		},
		{
			name: "conflicting names",
			files: fstest.MapFS{
				"sql/migrations/0001_init.up.sql":    script("CREATE TABLE a (id INT);"),
				"sql/migrations/0001_other.down.sql": script("DROP TABLE a;"),
			},
			wantErr: "conflicting names",
		},
		{
			name:    "no directory",
			files:   fstest.MapFS{},
			wantErr: "list migrations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readMigrations(tt.files)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			versions := make([]int64, 0, len(got))
			for _, m := range got {
				versions = append(versions, m.Version)
			}
			assert.Equal(t, tt.want, versions)
		})
	}
}

func TestEmbeddedSchemaCreatesSnackTables(t *testing.T) {
	migrations, err := readMigrations(migrationsFS)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	first := migrations[0]
	assert.Equal(t, "0001_init", first.label())
	for _, table := range []string{"menu_items", "orders", "order_items", "app_settings", "audit_log"} {
		assert.Contains(t, first.Up, table)
		assert.Contains(t, first.Down, table)
	}
}
