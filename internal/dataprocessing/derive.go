package dataprocessing

import (
	"math"
	"strings"
)

// AgeYears computes whole years between birth and admission, decrementing by
// one when the admission's (month, day) precedes the birth's in that year.
// Returns nil when either date is unparseable.
//
// Negative ages are returned as-is: a birth date after the admission date is a
// data problem that surfaces through the ordering rules, not something the
// calculator clamps away. Findings and derived values are computed
// independently and cross-checked.
func AgeYears(birth, admission ParsedDate) *int {
	if !birth.Valid() || !admission.Valid() {
		return nil
	}

	age := admission.Time.Year() - birth.Time.Year()
	if admission.Time.Month() < birth.Time.Month() ||
		(admission.Time.Month() == birth.Time.Month() && admission.Time.Day() < birth.Time.Day()) {
		age--
	}
	return &age
}

// DaysToAdmission computes the integer day difference between the burn event
// and the admission. Returns nil when either date is unparseable. The result
// may be negative; negativity is a validation finding, not a computation
// error.
func DaysToAdmission(burn, admission ParsedDate) *int {
	if !burn.Valid() || !admission.Valid() {
		return nil
	}
	days := int(admission.Time.Sub(burn.Time).Hours() / 24)
	return &days
}

// SeverityScore computes the simplified severity proxy: burn surface
// percentage plus age in years, rounded to one decimal place. The score is
// only produced when the surface value validates inside [1, 100] and the age
// is present; otherwise nil.
//
// The registry's score deliberately omits the inhalation-injury modifier of
// full clinical BAUX scoring.
func SeverityScore(surfaceRaw string, age *int) *float64 {
	if age == nil {
		return nil
	}
	surface, err := parseDecimal(surfaceRaw)
	if err != nil || surface < 1 || surface > 100 {
		return nil
	}

	score := math.Round((surface+float64(*age))*10) / 10
	return &score
}

// BuildClean assembles the output row for one source record. Fields that
// cannot be derived stay nil; the record is built once and never partially
// updated.
func BuildClean(rec RawRecord) CleanRecord {
	clean := CleanRecord{
		ID:        strings.TrimSpace(rec.ID),
		Processo:  rec.Processo,
		Nome:      rec.Nome,
		DataEnt:   rec.DataEnt,
		DataAlta:  rec.DataAlta,
		Destino:   rec.Destino,
		Sexo:      rec.Sexo,
		DataNasc:  rec.DataNasc,
		DataQueim: rec.DataQueim,
		Origem:    rec.Origem,
		ASCQ:      rec.ASCQ,
		Etiologia: rec.Etiologia,
		EnvVMI:    rec.EntVMI, // renamed column, value carried over unchanged
		LesaoInal: rec.LesaoInal,
	}

	if dec, err := DecodeIdentifier(clean.ID); err == nil {
		year, serial := dec.Year, dec.Serial
		clean.Year = &year
		clean.SerialID = &serial
	}

	birth := ParseDate(rec.DataNasc)
	admission := ParseDate(rec.DataEnt)
	burn := ParseDate(rec.DataQueim)

	clean.Idade = AgeYears(birth, admission)
	clean.DiasQueim = DaysToAdmission(burn, admission)
	clean.BAUX = SeverityScore(rec.ASCQ, clean.Idade)

	return clean
}
