package models

// CourseSnapshot is the point-in-time projection returned by the course
// catalog. It is borrowed data: consumed within a single orchestration and
// never cached across requests.
type CourseSnapshot struct {
	CourseID     string  `json:"courseId"`
	CourseNumber string  `json:"courseNumber"`
	CourseName   string  `json:"courseName"`
	NumHours     int     `json:"numHours"`
	NumCredits   float64 `json:"numCredits"`
	Department   string  `json:"department"`
}

// StudentSnapshot is the point-in-time projection returned by the student
// registry.
type StudentSnapshot struct {
	StudentID string `json:"studentId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Program   string `json:"program"`
}
