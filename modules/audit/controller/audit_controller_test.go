package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"secret-santa-api/core/params"
	"secret-santa-api/modules/audit/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditService struct {
	eventID     uuid.UUID
	queryParams params.QueryParams
}

func (s *fakeAuditService) Record(ctx context.Context, eventID, actorID *uuid.UUID, action string, detail map[string]interface{}) {
}

func (s *fakeAuditService) ListByEvent(ctx context.Context, eventID uuid.UUID, queryParams params.QueryParams) (*entity.PaginatedAuditLogEntity, error) {
	s.eventID = eventID
	s.queryParams = queryParams
	return &entity.PaginatedAuditLogEntity{
		Items:      []entity.AuditLog{},
		TotalItems: 0,
		PageNumber: queryParams.PageNumber,
		PageSize:   queryParams.PageSize,
	}, nil
}

func listRequest(t *testing.T, eventID, query string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/private/events/"+eventID+"/audit"+query, nil)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues(eventID)
	return ctx, rec
}

func TestListEventAudit_PassesPagination(t *testing.T) {
	svc := &fakeAuditService{}
	ctrl := NewAuditController(svc)
	eventID := uuid.New()

	ctx, rec := listRequest(t, eventID.String(), "?page=2&page_size=5")
	require.NoError(t, ctrl.ListEventAudit(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, eventID, svc.eventID)
	assert.Equal(t, 2, svc.queryParams.PageNumber)
	assert.Equal(t, 5, svc.queryParams.PageSize)
}

func TestListEventAudit_DefaultsPagination(t *testing.T) {
	svc := &fakeAuditService{}
	ctrl := NewAuditController(svc)

	ctx, rec := listRequest(t, uuid.New().String(), "")
	require.NoError(t, ctrl.ListEventAudit(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.queryParams.PageNumber)
	assert.Equal(t, 20, svc.queryParams.PageSize)
}

func TestListEventAudit_InvalidEventID(t *testing.T) {
	ctrl := NewAuditController(&fakeAuditService{})

	ctx, _ := listRequest(t, "not-a-uuid", "")
	err := ctrl.ListEventAudit(ctx)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
