package database

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/olivere/elastic/v7"

	"github.com/locvowork/companygen/internal/domain"
)

var (
	_ domain.Sink    = (*ElasticSink)(nil)
	_ domain.Counter = (*ElasticSink)(nil)
)

const elasticBulkSize = 1000

// Index mappings per table. Dates use the default date format, which accepts
// the RFC 3339 values produced by encoding/json.
var elasticMappings = map[string]string{
	domain.TableDepartments: `{"mappings":{"properties":{
		"dept_id":{"type":"integer"},"dept_name":{"type":"keyword"}}}}`,
	domain.TableEmployees: `{"mappings":{"properties":{
		"emp_id":{"type":"integer"},"name":{"type":"text"},"dept_id":{"type":"integer"},"hire_date":{"type":"date"}}}}`,
	domain.TableSalaries: `{"mappings":{"properties":{
		"salary_id":{"type":"integer"},"emp_id":{"type":"integer"},"salary":{"type":"integer"},
		"from_date":{"type":"date"},"to_date":{"type":"date"}}}}`,
	domain.TableProjects: `{"mappings":{"properties":{
		"project_id":{"type":"integer"},"project_name":{"type":"text"},"budget":{"type":"integer"}}}}`,
	domain.TableAssignments: `{"mappings":{"properties":{
		"emp_id":{"type":"integer"},"project_id":{"type":"integer"},"role":{"type":"keyword"}}}}`,
}

// ElasticSink writes each table to its own Elasticsearch 7.x index.
type ElasticSink struct {
	client *elastic.Client
	prefix string
}

// NewElasticSink creates a client for the cluster at url. Index names are
// the table names with prefix prepended.
func NewElasticSink(url, prefix string) (*ElasticSink, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false), // Essential when using Docker or cloud
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return &ElasticSink{client: client, prefix: prefix}, nil
}

func (es *ElasticSink) index(table string) string {
	return es.prefix + table
}

// Reset deletes every company index that exists.
func (es *ElasticSink) Reset(ctx context.Context) error {
	for _, table := range domain.Tables {
		name := es.index(table)
		exists, err := es.client.IndexExists(name).Do(ctx)
		if err != nil {
			return fmt.Errorf("failed to check index %s: %w", name, err)
		}
		if !exists {
			continue
		}
		if _, err := es.client.DeleteIndex(name).Do(ctx); err != nil {
			return fmt.Errorf("failed to delete index %s: %w", name, err)
		}
	}
	return nil
}

// CreateSchema creates one index per table with explicit mappings.
func (es *ElasticSink) CreateSchema(ctx context.Context) error {
	for _, table := range domain.Tables {
		name := es.index(table)
		if _, err := es.client.CreateIndex(name).BodyString(elasticMappings[table]).Do(ctx); err != nil {
			return fmt.Errorf("failed to create index %s: %w", name, err)
		}
	}
	return nil
}

func (es *ElasticSink) InsertDepartments(ctx context.Context, depts []domain.Department) error {
	reqs := make([]elastic.BulkableRequest, len(depts))
	for i, d := range depts {
		reqs[i] = elastic.NewBulkIndexRequest().Index(es.index(domain.TableDepartments)).Id(strconv.Itoa(d.ID)).Doc(d)
	}
	return es.bulk(ctx, domain.TableDepartments, reqs, false)
}

func (es *ElasticSink) InsertEmployees(ctx context.Context, emps []domain.Employee) error {
	reqs := make([]elastic.BulkableRequest, len(emps))
	for i, e := range emps {
		reqs[i] = elastic.NewBulkIndexRequest().Index(es.index(domain.TableEmployees)).Id(strconv.Itoa(e.ID)).Doc(e)
	}
	return es.bulk(ctx, domain.TableEmployees, reqs, false)
}

func (es *ElasticSink) InsertSalaries(ctx context.Context, salaries []domain.SalaryRecord) error {
	reqs := make([]elastic.BulkableRequest, len(salaries))
	for i, s := range salaries {
		reqs[i] = elastic.NewBulkIndexRequest().Index(es.index(domain.TableSalaries)).Id(strconv.Itoa(s.ID)).Doc(s)
	}
	return es.bulk(ctx, domain.TableSalaries, reqs, false)
}

func (es *ElasticSink) InsertProjects(ctx context.Context, projects []domain.Project) error {
	reqs := make([]elastic.BulkableRequest, len(projects))
	for i, p := range projects {
		reqs[i] = elastic.NewBulkIndexRequest().Index(es.index(domain.TableProjects)).Id(strconv.Itoa(p.ID)).Doc(p)
	}
	return es.bulk(ctx, domain.TableProjects, reqs, false)
}

// InsertAssignments uses create operations keyed by the composite key, so an
// existing pair is rejected with 409 and skipped.
func (es *ElasticSink) InsertAssignments(ctx context.Context, assignments []domain.Assignment) error {
	reqs := make([]elastic.BulkableRequest, len(assignments))
	for i, a := range assignments {
		reqs[i] = elastic.NewBulkCreateRequest().Index(es.index(domain.TableAssignments)).Id(assignmentDocID(a)).Doc(a)
	}
	return es.bulk(ctx, domain.TableAssignments, reqs, true)
}

func assignmentDocID(a domain.Assignment) string {
	return strconv.Itoa(a.EmployeeID) + "-" + strconv.Itoa(a.ProjectID)
}

func (es *ElasticSink) bulk(ctx context.Context, table string, reqs []elastic.BulkableRequest, ignoreConflicts bool) error {
	for start := 0; start < len(reqs); start += elasticBulkSize {
		end := min(start+elasticBulkSize, len(reqs))

		resp, err := es.client.Bulk().Add(reqs[start:end]...).Refresh("true").Do(ctx)
		if err != nil {
			return fmt.Errorf("bulk index into %s failed: %w", table, err)
		}
		if err := bulkError(resp, ignoreConflicts); err != nil {
			return fmt.Errorf("bulk index into %s failed: %w", table, err)
		}
	}
	return nil
}

// bulkError returns the first failed item, skipping version conflicts when
// ignoreConflicts is set.
func bulkError(resp *elastic.BulkResponse, ignoreConflicts bool) error {
	if resp == nil || !resp.Errors {
		return nil
	}
	for _, item := range resp.Items {
		for _, op := range item {
			if op == nil || op.Error == nil {
				continue
			}
			if ignoreConflicts && op.Status == http.StatusConflict {
				continue
			}
			return fmt.Errorf("item %s: %s", op.Id, op.Error.Reason)
		}
	}
	return nil
}

func (es *ElasticSink) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(domain.Tables))
	for _, table := range domain.Tables {
		n, err := es.client.Count(es.index(table)).Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", es.index(table), err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Close stops the client's background goroutines.
func (es *ElasticSink) Close() error {
	es.client.Stop()
	return nil
}
