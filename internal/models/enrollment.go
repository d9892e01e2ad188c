package models

// Semester identifies the academic term an enrollment belongs to.
type Semester string

// Recognised semester values.
const (
	SemesterFall   Semester = "FALL"
	SemesterWinter Semester = "WINTER"
	SemesterSpring Semester = "SPRING"
	SemesterSummer Semester = "SUMMER"
)

// Valid reports whether the semester is one of the recognised values.
func (s Semester) Valid() bool {
	switch s {
	case SemesterFall, SemesterWinter, SemesterSpring, SemesterSummer:
		return true
	}
	return false
}

// EnrollmentIDLength is the length of a textual enrollment identifier.
const EnrollmentIDLength = 36

// Enrollment is the persisted aggregate. The student and course fields are
// denormalized snapshots captured from the owning services at the moment the
// enrollment was created or last updated; they are not re-synced afterwards.
type Enrollment struct {
	EnrollmentID     string   `db:"enrollment_id" json:"enrollmentId"`
	EnrollmentYear   int      `db:"enrollment_year" json:"enrollmentYear"`
	Semester         Semester `db:"semester" json:"semester"`
	StudentID        string   `db:"student_id" json:"studentId"`
	StudentFirstName string   `db:"student_first_name" json:"studentFirstName"`
	StudentLastName  string   `db:"student_last_name" json:"studentLastName"`
	CourseID         string   `db:"course_id" json:"courseId"`
	CourseNumber     string   `db:"course_number" json:"courseNumber"`
	CourseName       string   `db:"course_name" json:"courseName"`
}
