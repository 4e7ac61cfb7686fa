package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lostfound/internal/domain"
)

func TestListQuery_NoFilter(t *testing.T) {
	query, args, err := listQuery(domain.ReportFilter{}).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT id, name, description, location, contact, category, image_url, reporter_email, status, created_at FROM reports ORDER BY created_at DESC",
		query)
	assert.Empty(t, args)
}

func TestListQuery_AllFilters(t *testing.T) {
	query, args, err := listQuery(domain.ReportFilter{
		Category: domain.CategoryLost,
		Status:   domain.ReportStatusPending,
		Search:   "lib",
		Limit:    20,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE category = $1 AND status = $2 AND (name ILIKE $3 OR location ILIKE $4)")
	assert.Contains(t, query, "ORDER BY created_at DESC LIMIT 20")
	assert.Equal(t, []interface{}{domain.CategoryLost, domain.ReportStatusPending, "%lib%", "%lib%"}, args)
}

func TestListQuery_SearchIsLiteral(t *testing.T) {
	tests := []struct {
		search string
		want   string
	}{
		{"_", `%\_%`},
		{"50%", `%50\%%`},
		{`C:\bin`, `%C:\\bin%`},
		{"Keys", "%Keys%"},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			_, args, err := listQuery(domain.ReportFilter{Search: tt.search}).ToSql()
			require.NoError(t, err)
			assert.Equal(t, []interface{}{tt.want, tt.want}, args)
		})
	}
}

func TestUpdateStatusQuery_GuardsCurrentStatus(t *testing.T) {
	id := uuid.New()
	query, args, err := updateStatusQuery(id, domain.ReportStatusPending, domain.ReportStatusResolved).ToSql()
	require.NoError(t, err)

	assert.Equal(t, "UPDATE reports SET status = $1 WHERE id = $2 AND status = $3", query)
	assert.Equal(t, []interface{}{domain.ReportStatusResolved, id, domain.ReportStatusPending}, args)
}
