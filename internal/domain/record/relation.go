package record

type JoinType string

const (
	LeftJoin  JoinType = "LEFT"
	InnerJoin JoinType = "INNER"
)

// Field selects one column of a related table, optionally renamed.
type Field struct {
	Name  string
	Alias string
}

// OutputName is the key the field gets in the result row.
func (f Field) OutputName() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// Select is shorthand for fields without aliases.
func Select(names ...string) []Field {
	fields := make([]Field, len(names))
	for i, name := range names {
		fields[i] = Field{Name: name}
	}
	return fields
}

// Relation joins a related table onto the base query. Where and WhereBetween
// filter the related rows only; for a LEFT join they never drop base rows.
type Relation struct {
	Table        Table
	LocalKey     string
	ForeignKey   string
	Join         JoinType
	Fields       []Field
	Where        []Condition
	WhereBetween []Range

	// Snapshot turns the relation into a per-row "latest matching" lookup.
	Snapshot *Snapshot
}

// Snapshot picks, for every base row, the single related row with the greatest
// Column satisfying `Column Operator Value`. Ties go to the highest primary key.
type Snapshot struct {
	Column   string
	Operator Operator
	Value    any
}

// LatestAsOf is the usual snapshot: greatest column value not after asOf.
func LatestAsOf(column string, asOf any) *Snapshot {
	return &Snapshot{Column: column, Operator: OpLte, Value: asOf}
}
