package timetable

import "strings"

// DecomposeRow associates a data row's day label with its period cells and
// splits every occupied cell into subject plus teacher names.
//
// Cell layout conventions, as produced by departmental timetable PDFs:
//   - a single line is a bare subject taught by an unnamed teacher;
//   - with multiple lines, the last line names the teacher(s) and the lines
//     before it form the subject;
//   - several teachers share a slot via "/" separators, one candidate each;
//   - a subject containing "LAB" runs across two consecutive periods, so its
//     end time is taken from the following column when one exists.
//
// The row is zipped against the period list: cells beyond the last period have
// no column to belong to and are dropped.
func DecomposeRow(row []string, periods []Period) []Candidate {
	if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
		return nil
	}

	day := DayCode(strings.TrimSpace(row[0]))

	cells := row[1:]
	if len(cells) > len(periods) {
		cells = cells[:len(periods)]
	}

	var candidates []Candidate
	for idx, cell := range cells {
		if strings.TrimSpace(cell) == "" {
			continue
		}

		lines := nonEmptyLines(cell)
		if len(lines) == 0 {
			continue
		}

		subject := lines[0]
		teacherField := UnknownTeacher
		if len(lines) > 1 {
			teacherField = lines[len(lines)-1]
			subject = strings.Join(lines[:len(lines)-1], " ")
		}

		start, end := periods[idx].Start, periods[idx].End
		if isLabSubject(subject) && idx+1 < len(periods) {
			end = periods[idx+1].End
		}

		for _, teacher := range splitTeachers(teacherField) {
			candidates = append(candidates, Candidate{
				TeacherName: teacher,
				Day:         day,
				StartTime:   start,
				EndTime:     end,
				Subject:     subject,
			})
		}
	}
	return candidates
}

func splitTeachers(field string) []string {
	parts := strings.Split(field, "/")
	teachers := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			teachers = append(teachers, trimmed)
		}
	}
	return teachers
}

func isLabSubject(subject string) bool {
	return strings.Contains(strings.ToUpper(subject), "LAB")
}
