package table

// Well-known column names shared by the upload modes. They are the exact,
// case-sensitive headers the sheets must carry.
const (
	ColumnName    = "Nombre"
	ColumnPhone   = "Celular"
	ColumnEmail   = "email"
	ColumnSubject = "asunto"
	ColumnBody    = "mensaje"
)

// Required header sets for the upload modes the UI offers.
var (
	MailNamesSchema   = []string{ColumnName, ColumnPhone, ColumnEmail}
	MailColumnsSchema = []string{ColumnEmail, ColumnSubject, ColumnBody}
	ChatSchema        = []string{ColumnName, ColumnPhone}
)

// ContactRow is one validated row of an uploaded table. Fields maps every
// column header to the row's trimmed cell value; the keys double as the
// placeholder names available to message templates. Rows are not modified
// after validation.
type ContactRow struct {
	Fields map[string]string
}

// Get returns the value for a column, or "" when the column does not exist.
func (r ContactRow) Get(column string) string {
	return r.Fields[column]
}

// Name returns the row's Nombre column.
func (r ContactRow) Name() string { return r.Fields[ColumnName] }

// Phone returns the row's Celular column.
func (r ContactRow) Phone() string { return r.Fields[ColumnPhone] }

// Email returns the row's email column.
func (r ContactRow) Email() string { return r.Fields[ColumnEmail] }
