package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/datastore"

	"github.com/locvowork/companygen/internal/domain"
)

var (
	_ domain.Sink    = (*DatastoreSink)(nil)
	_ domain.Counter = (*DatastoreSink)(nil)
)

// datastoreBatchSize is the Datastore limit on entities per multi call.
const datastoreBatchSize = 500

// Datastore kinds per table.
var datastoreKinds = map[string]string{
	domain.TableDepartments: "Department",
	domain.TableEmployees:   "Employee",
	domain.TableSalaries:    "Salary",
	domain.TableProjects:    "Project",
	domain.TableAssignments: "EmployeeProject",
}

// salaryEntity stores SalaryRecord with an explicit Active flag, since the
// datastore codec has no pointer-to-time field type.
type salaryEntity struct {
	ID         int
	EmployeeID int
	Amount     int
	FromDate   time.Time
	ToDate     time.Time `datastore:",noindex"`
	Active     bool
}

func newSalaryEntity(s domain.SalaryRecord) salaryEntity {
	e := salaryEntity{ID: s.ID, EmployeeID: s.EmployeeID, Amount: s.Amount, FromDate: s.FromDate, Active: s.Active()}
	if s.ToDate != nil {
		e.ToDate = *s.ToDate
	}
	return e
}

// DatastoreSink writes each table to a Cloud Datastore kind.
// It honours DATASTORE_EMULATOR_HOST through the client library.
type DatastoreSink struct {
	client    *datastore.Client
	namespace string
}

// NewDatastoreSink connects to the given project.
func NewDatastoreSink(ctx context.Context, projectID, namespace string) (*DatastoreSink, error) {
	client, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}
	return WrapDatastoreClient(client, namespace), nil
}

// WrapDatastoreClient wraps an existing datastore client.
func WrapDatastoreClient(client *datastore.Client, namespace string) *DatastoreSink {
	return &DatastoreSink{client: client, namespace: namespace}
}

func (dc *DatastoreSink) key(table, name string) *datastore.Key {
	k := datastore.NameKey(datastoreKinds[table], name, nil)
	k.Namespace = dc.namespace
	return k
}

func (dc *DatastoreSink) idKeys(table string, n int, id func(int) int) []*datastore.Key {
	keys := make([]*datastore.Key, n)
	for i := range keys {
		keys[i] = dc.key(table, strconv.Itoa(id(i)))
	}
	return keys
}

func (dc *DatastoreSink) query(table string) *datastore.Query {
	return datastore.NewQuery(datastoreKinds[table]).Namespace(dc.namespace).KeysOnly()
}

// Reset deletes every entity of the company kinds, children first.
func (dc *DatastoreSink) Reset(ctx context.Context) error {
	for i := len(domain.Tables) - 1; i >= 0; i-- {
		table := domain.Tables[i]
		keys, err := dc.client.GetAll(ctx, dc.query(table), nil)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", datastoreKinds[table], err)
		}
		for _, r := range chunks(len(keys), datastoreBatchSize) {
			if err := dc.client.DeleteMulti(ctx, keys[r[0]:r[1]]); err != nil {
				return fmt.Errorf("failed to delete %s: %w", datastoreKinds[table], err)
			}
		}
	}
	return nil
}

// CreateSchema is a no-op; kinds come into existence on first write.
func (dc *DatastoreSink) CreateSchema(context.Context) error {
	return nil
}

func (dc *DatastoreSink) InsertDepartments(ctx context.Context, depts []domain.Department) error {
	keys := dc.idKeys(domain.TableDepartments, len(depts), func(i int) int { return depts[i].ID })
	return putChunked(ctx, dc.client, domain.TableDepartments, keys, depts)
}

func (dc *DatastoreSink) InsertEmployees(ctx context.Context, emps []domain.Employee) error {
	keys := dc.idKeys(domain.TableEmployees, len(emps), func(i int) int { return emps[i].ID })
	return putChunked(ctx, dc.client, domain.TableEmployees, keys, emps)
}

func (dc *DatastoreSink) InsertSalaries(ctx context.Context, salaries []domain.SalaryRecord) error {
	entities := make([]salaryEntity, len(salaries))
	for i, s := range salaries {
		entities[i] = newSalaryEntity(s)
	}
	keys := dc.idKeys(domain.TableSalaries, len(salaries), func(i int) int { return salaries[i].ID })
	return putChunked(ctx, dc.client, domain.TableSalaries, keys, entities)
}

func (dc *DatastoreSink) InsertProjects(ctx context.Context, projects []domain.Project) error {
	keys := dc.idKeys(domain.TableProjects, len(projects), func(i int) int { return projects[i].ID })
	return putChunked(ctx, dc.client, domain.TableProjects, keys, projects)
}

// InsertAssignments writes only pairs whose key is not stored yet.
func (dc *DatastoreSink) InsertAssignments(ctx context.Context, assignments []domain.Assignment) error {
	unique := domain.UniqueAssignments(assignments)
	for _, r := range chunks(len(unique), datastoreBatchSize) {
		batch := unique[r[0]:r[1]]
		keys := make([]*datastore.Key, len(batch))
		for i, a := range batch {
			keys[i] = dc.key(domain.TableAssignments, assignmentDocID(a))
		}

		missing, err := dc.missing(ctx, keys)
		if err != nil {
			return err
		}

		var putKeys []*datastore.Key
		var putRows []domain.Assignment
		for _, i := range missing {
			putKeys = append(putKeys, keys[i])
			putRows = append(putRows, batch[i])
		}
		if len(putKeys) == 0 {
			continue
		}
		if _, err := dc.client.PutMulti(ctx, putKeys, putRows); err != nil {
			return fmt.Errorf("failed to put %s: %w", datastoreKinds[domain.TableAssignments], err)
		}
	}
	return nil
}

// missing returns the positions of keys that have no stored entity.
func (dc *DatastoreSink) missing(ctx context.Context, keys []*datastore.Key) ([]int, error) {
	dst := make([]domain.Assignment, len(keys))
	err := dc.client.GetMulti(ctx, keys, dst)
	if err == nil {
		return nil, nil
	}

	var multi datastore.MultiError
	if !errors.As(err, &multi) {
		return nil, fmt.Errorf("failed to look up assignments: %w", err)
	}
	var out []int
	for i, e := range multi {
		switch {
		case e == nil:
		case errors.Is(e, datastore.ErrNoSuchEntity):
			out = append(out, i)
		default:
			return nil, fmt.Errorf("failed to look up assignments: %w", e)
		}
	}
	return out, nil
}

func (dc *DatastoreSink) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(domain.Tables))
	for _, table := range domain.Tables {
		n, err := dc.client.Count(ctx, dc.query(table))
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", datastoreKinds[table], err)
		}
		counts[table] = int64(n)
	}
	return counts, nil
}

func (dc *DatastoreSink) Close() error {
	return dc.client.Close()
}

func putChunked[T any](ctx context.Context, client *datastore.Client, table string, keys []*datastore.Key, src []T) error {
	for _, r := range chunks(len(src), datastoreBatchSize) {
		if _, err := client.PutMulti(ctx, keys[r[0]:r[1]], src[r[0]:r[1]]); err != nil {
			return fmt.Errorf("failed to put %s: %w", datastoreKinds[table], err)
		}
	}
	return nil
}

// chunks splits [0, n) into half-open ranges of at most size elements.
func chunks(n, size int) [][2]int {
	var out [][2]int
	for start := 0; start < n; start += size {
		out = append(out, [2]int{start, min(start+size, n)})
	}
	return out
}
