package booking

import (
	"bufio"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const initMigration = "../../../../migrations/0001_init.sql"

// bookingsColumns возвращает объявления колонок таблицы bookings по имени
func bookingsColumns(t *testing.T) map[string]string {
	t.Helper()

	f, err := os.Open(initMigration)
	require.NoError(t, err)
	defer f.Close()

	columns := make(map[string]string)
	inTable := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "CREATE TABLE") && strings.Contains(line, " bookings"):
			inTable = true
		case inTable && strings.HasPrefix(line, ");"):
			inTable = false
		case inTable && line != "":
			fields := strings.Fields(line)
			columns[fields[0]] = line
		}
	}
	require.NoError(t, scanner.Err())
	require.NotEmpty(t, columns, "bookings table not found in %s", initMigration)
	return columns
}

// ServiceID в domain.Booking не указатель: колонка не может стать NULL
func TestSchema_ServiceIDNeverNull(t *testing.T) {
	column, ok := bookingsColumns(t)["service_id"]
	require.True(t, ok)

	assert.Contains(t, column, "NOT NULL")
	assert.Contains(t, column, "ON DELETE RESTRICT")
	assert.NotContains(t, column, "SET NULL")
}

// Указательные поля (ResourceID, CanceledBy) допускают SET NULL, остальные нет
func TestSchema_SetNullOnlyOnNullableColumns(t *testing.T) {
	for name, column := range bookingsColumns(t) {
		if strings.Contains(column, "ON DELETE SET NULL") {
			assert.NotContains(t, column, "NOT NULL", "column %s", name)
		}
	}
}
