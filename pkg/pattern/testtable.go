package pattern

// Status values for TestTableItem.
const (
	StatusCorrect   = "correct"
	StatusIncorrect = "incorrect"
	StatusUnknown   = "unknown"
)

// TestTable represents per-question results of a submission.
type TestTable struct {
	Label   string
	Results []TestTableItem
}

// TestTableItem is a single question row.
type TestTableItem struct {
	Name     string // question text
	Status   string // StatusCorrect, StatusIncorrect, StatusUnknown
	Expected string // correct category
	Actual   string // category the prompt produced; empty when unknown
}

func (t *TestTable) Type() PatternType { return PatternTypeTestTable }
