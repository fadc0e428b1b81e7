package database

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/olivere/elastic/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/companygen/internal/domain"
	"github.com/locvowork/companygen/internal/generator"
)

func TestBulkErrorIgnoresConflictsOnlyWhenAsked(t *testing.T) {
	resp := &elastic.BulkResponse{
		Errors: true,
		Items: []map[string]*elastic.BulkResponseItem{
			{"create": {Id: "1-2", Status: http.StatusCreated}},
			{"create": {Id: "1-3", Status: http.StatusConflict, Error: &elastic.ErrorDetails{Type: "version_conflict_engine_exception", Reason: "document already exists"}}},
		},
	}
	assert.NoError(t, bulkError(resp, true))
	assert.EqualError(t, bulkError(resp, false), "item 1-3: document already exists")

	resp.Items = append(resp.Items, map[string]*elastic.BulkResponseItem{
		"create": {Id: "2-1", Status: http.StatusBadRequest, Error: &elastic.ErrorDetails{Reason: "failed to parse"}},
	})
	assert.EqualError(t, bulkError(resp, true), "item 2-1: failed to parse")
	assert.NoError(t, bulkError(&elastic.BulkResponse{}, false))
}

func TestElasticSinkAssignmentsUseCreate(t *testing.T) {
	bodies := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/_bulk") {
			http.NotFound(w, r)
			return
		}
		b, _ := io.ReadAll(r.Body)
		bodies <- string(b)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"took":1,"errors":true,"items":[
			{"create":{"_index":"t_employee_projects","_id":"1-2","status":201}},
			{"create":{"_index":"t_employee_projects","_id":"1-3","status":409,
				"error":{"type":"version_conflict_engine_exception","reason":"document already exists"}}}]}`)
	}))
	defer srv.Close()

	sink, err := NewElasticSink(srv.URL, "t_")
	require.NoError(t, err)
	defer sink.Close()

	err = sink.InsertAssignments(context.Background(), []domain.Assignment{
		{EmployeeID: 1, ProjectID: 2, Role: "Lead"},
		{EmployeeID: 1, ProjectID: 3, Role: "Analyst"},
	})
	require.NoError(t, err)
	require.Len(t, bodies, 1)
	body := <-bodies
	assert.Contains(t, body, `"create"`)
	assert.Contains(t, body, `"_index":"t_employee_projects"`)
	assert.Contains(t, body, `"_id":"1-3"`)
}

func TestElasticSinkIntegration(t *testing.T) {
	url := os.Getenv("ELASTIC_URL")
	if url == "" {
		t.Skip("ELASTIC_URL not set")
	}
	ctx := context.Background()
	sink, err := NewElasticSink(url, "companygen_test_")
	require.NoError(t, err)
	defer sink.Close()
	prepare(t, sink)

	ds, err := generator.NewSeeded(smallConfig(), 5).Run(ctx, sink)
	require.NoError(t, err)
	require.NoError(t, sink.InsertAssignments(ctx, ds.Assignments))

	counts, err := sink.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, len(ds.Assignments), counts[domain.TableAssignments])
	require.NoError(t, sink.Reset(ctx))
}

func TestChunks(t *testing.T) {
	assert.Nil(t, chunks(0, 500))
	assert.Equal(t, [][2]int{{0, 3}}, chunks(3, 500))
	assert.Equal(t, [][2]int{{0, 500}, {500, 1000}, {1000, 1001}}, chunks(1001, 500))
}

func TestSalaryEntity(t *testing.T) {
	from := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	closed := newSalaryEntity(domain.SalaryRecord{ID: 1, EmployeeID: 2, Amount: 5000, FromDate: from, ToDate: &to})
	assert.False(t, closed.Active)
	assert.Equal(t, to, closed.ToDate)

	active := newSalaryEntity(domain.SalaryRecord{ID: 2, EmployeeID: 2, Amount: 5500, FromDate: to})
	assert.True(t, active.Active)
	assert.True(t, active.ToDate.IsZero())
}

func TestDatastoreSinkIntegration(t *testing.T) {
	if os.Getenv("DATASTORE_EMULATOR_HOST") == "" {
		t.Skip("DATASTORE_EMULATOR_HOST not set")
	}
	ctx := context.Background()
	sink, err := NewDatastoreSink(ctx, "companygen-test", "test")
	require.NoError(t, err)
	defer sink.Close()
	prepare(t, sink)

	ds, err := generator.NewSeeded(smallConfig(), 9).Run(ctx, sink)
	require.NoError(t, err)
	require.NoError(t, sink.InsertAssignments(ctx, ds.Assignments[:1]))

	counts, err := sink.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, len(ds.Employees), counts[domain.TableEmployees])
	assert.EqualValues(t, len(ds.Assignments), counts[domain.TableAssignments])
	require.NoError(t, sink.Reset(ctx))
}
