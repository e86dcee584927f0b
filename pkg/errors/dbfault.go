package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// DBFault is a driver-neutral view of a postgres server error. Both pgx and
// lib/pq can surface one depending on how the connection was opened.
type DBFault struct {
	SQLState   string
	Constraint string
	Table      string
	Column     string
	Detail     string
	Message    string
}

func DBFaultOf(err error) (DBFault, bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return DBFault{
			SQLState:   pgxErr.Code,
			Constraint: pgxErr.ConstraintName,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Detail:     pgxErr.Detail,
			Message:    pgxErr.Message,
		}, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return DBFault{
			SQLState:   string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Detail:     pqErr.Detail,
			Message:    pqErr.Message,
		}, true
	}
	return DBFault{}, false
}

// LogFields flattens err into structured log fields: the typed code, each
// wrapped layer, and postgres details when present.
func LogFields(err error) map[string]any {
	if err == nil {
		return map[string]any{}
	}
	var chain []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T: %v", e, e))
	}
	fields := map[string]any{
		"error":       err.Error(),
		"error_chain": chain,
	}
	if typed := As(err); typed != nil {
		fields["error_code"] = typed.Code()
	}
	if fault, ok := DBFaultOf(err); ok {
		fields["pg_code"] = fault.SQLState
		fields["pg_constraint"] = fault.Constraint
		fields["pg_table"] = fault.Table
		fields["pg_column"] = fault.Column
		fields["pg_detail"] = fault.Detail
		fields["pg_message"] = fault.Message
	}
	return fields
}
