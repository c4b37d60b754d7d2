package dataprocessing

// Source column names, exactly as they appear in the registry CSV header.
const (
	ColID        = "ID"
	ColProcesso  = "processo"
	ColNome      = "nome"
	ColDataEnt   = "data_ent"
	ColDataAlta  = "data_alta"
	ColDestino   = "destino"
	ColSexo      = "sexo"
	ColDataNasc  = "data_nasc"
	ColDataQueim = "data_queim"
	ColOrigem    = "origem"
	ColASCQ      = "ASCQ"
	ColEtiologia = "etiologia"
	ColEntVMI    = "ent_VMI"
	ColLesaoInal = "lesao_inal"
)

// RawRecord is one source row, read once and never mutated. Row is the CSV
// row number with the header as row 1, so data rows start at 2; it is the
// record's only ordering key and the number used in all diagnostics.
type RawRecord struct {
	Row       int
	ID        string
	Processo  string
	Nome      string
	DataEnt   string
	DataAlta  string
	Destino   string
	Sexo      string
	DataNasc  string
	DataQueim string
	Origem    string
	ASCQ      string
	Etiologia string
	EntVMI    string
	LesaoInal string
}

// Field returns the raw value of the named source column. Unknown column
// names return the empty string.
func (r RawRecord) Field(column string) string {
	switch column {
	case ColID:
		return r.ID
	case ColProcesso:
		return r.Processo
	case ColNome:
		return r.Nome
	case ColDataEnt:
		return r.DataEnt
	case ColDataAlta:
		return r.DataAlta
	case ColDestino:
		return r.Destino
	case ColSexo:
		return r.Sexo
	case ColDataNasc:
		return r.DataNasc
	case ColDataQueim:
		return r.DataQueim
	case ColOrigem:
		return r.Origem
	case ColASCQ:
		return r.ASCQ
	case ColEtiologia:
		return r.Etiologia
	case ColEntVMI:
		return r.EntVMI
	case ColLesaoInal:
		return r.LesaoInal
	}
	return ""
}

// FindingKind enumerates the validation problems the rule engine can record.
type FindingKind string

const (
	FindingEmpty             FindingKind = "empty"
	FindingInvalidFormat     FindingKind = "invalid_format"
	FindingOutOfRange        FindingKind = "out_of_range"
	FindingDuplicate         FindingKind = "duplicate"
	FindingYearMismatch      FindingKind = "year_mismatch"
	FindingSequenceViolation FindingKind = "sequence_violation"
	FindingNotAfterReference FindingKind = "not_after_reference"
)

// Finding is one recorded validation problem tied to a row and column. It is
// an append-only fact: findings never mutate the RawRecord they describe.
//
// Duplicate findings carry one entry per group with every member row in Rows
// and Row set to the first member. Sequence violations list the offending row
// first and the row that set the violated running maximum second.
type Finding struct {
	Row    int         `json:"row"`
	Column string      `json:"column"`
	Kind   FindingKind `json:"kind"`
	Detail string      `json:"detail"`
	Rows   []int       `json:"rows,omitempty"`
}

// CleanRecord is one output row of the clean dataset: every source field plus
// the decoded identifier parts and the derived fields. Nil pointers mean the
// value could not be derived and serialize as empty cells.
type CleanRecord struct {
	ID        string   `json:"id"`
	Year      *int     `json:"year"`
	SerialID  *int     `json:"serial_id"`
	Processo  string   `json:"processo"`
	Nome      string   `json:"nome"`
	DataEnt   string   `json:"data_ent"`
	DataAlta  string   `json:"data_alta"`
	Destino   string   `json:"destino"`
	Sexo      string   `json:"sexo"`
	DataNasc  string   `json:"data_nasc"`
	DataQueim string   `json:"data_queim"`
	Origem    string   `json:"origem"`
	ASCQ      string   `json:"ASCQ"`
	Etiologia string   `json:"etiologia"`
	EnvVMI    string   `json:"env_VMI"`
	LesaoInal string   `json:"lesao_inal"`
	Idade     *int     `json:"idade"`
	DiasQueim *int     `json:"dias_queim"`
	BAUX      *float64 `json:"BAUX"`
}
