package assessment

// Aggregate is the derived roll-up of assessed/passed student counts for an
// outcome or a group of sections. PassRate is nil exactly when no students
// were assessed; a real 0% outcome keeps a non-nil zero rate.
type Aggregate struct {
	StudentsAssessed int      `json:"studentsAssessed"`
	StudentsPassed   int      `json:"studentsPassed"`
	SectionCount     int      `json:"sectionCount"`
	PassRate         *float64 `json:"passRate"`
}

// SectionCounts is the immutable per-section snapshot the roll-up starts from.
type SectionCounts struct {
	StudentsAssessed int
	StudentsPassed   int
}

// finish recomputes PassRate from the summed counts.
func (a *Aggregate) finish() {
	if a.StudentsAssessed == 0 {
		a.PassRate = nil
		return
	}
	rate := 100 * float64(a.StudentsPassed) / float64(a.StudentsAssessed)
	a.PassRate = &rate
}

// SectionAggregate folds section snapshots into a single aggregate.
func SectionAggregate(sections []SectionCounts) Aggregate {
	var agg Aggregate
	for _, s := range sections {
		agg.StudentsAssessed += s.StudentsAssessed
		agg.StudentsPassed += s.StudentsPassed
		agg.SectionCount++
	}
	agg.finish()
	return agg
}

// Rollup combines child aggregates into a parent aggregate by summing raw
// counts. Rates are never averaged; the parent rate is recomputed from the
// summed counts so that weighting by section size falls out naturally.
func Rollup(children ...Aggregate) Aggregate {
	var agg Aggregate
	for _, c := range children {
		agg.StudentsAssessed += c.StudentsAssessed
		agg.StudentsPassed += c.StudentsPassed
		agg.SectionCount += c.SectionCount
	}
	agg.finish()
	return agg
}
