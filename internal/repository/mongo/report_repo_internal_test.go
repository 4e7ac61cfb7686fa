package mongo

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"lostfound/internal/domain"
)

func TestListFilter_Empty(t *testing.T) {
	assert.Equal(t, bson.M{}, listFilter(domain.ReportFilter{}))
}

func TestListFilter_SearchIsEscaped(t *testing.T) {
	m := listFilter(domain.ReportFilter{
		Category: domain.CategoryFound,
		Search:   "lab (3)",
	})

	assert.Equal(t, "found", m["category"])
	or, ok := m["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 2)

	name := or[0]["name"].(bson.M)
	assert.Equal(t, regexp.QuoteMeta("lab (3)"), name["$regex"])
	assert.Equal(t, "i", name["$options"])
}

func TestReportDoc_ToDomain(t *testing.T) {
	id := uuid.New()
	now := time.Now().UTC()
	r, err := reportDoc{
		ID: id.String(), Name: "Keys", Category: "lost", Status: "pending", CreatedAt: now,
	}.toDomain()

	require.NoError(t, err)
	assert.Equal(t, id, r.ID)
	assert.Equal(t, domain.CategoryLost, r.Category)
	assert.Equal(t, domain.ReportStatusPending, r.Status)
	assert.Equal(t, now, r.CreatedAt)

	_, err = reportDoc{ID: "not-a-uuid"}.toDomain()
	assert.Error(t, err)
}

func TestStatusFilter_MatchesCurrentStatus(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, bson.M{"_id": id.String(), "status": "pending"}, statusFilter(id, domain.ReportStatusPending))
}
