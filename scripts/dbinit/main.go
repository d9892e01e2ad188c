// Command dbinit creates the enrollments schema. It is idempotent and safe to
// run against an already provisioned database.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/campusops/enrollments-api/pkg/config"
	"github.com/campusops/enrollments-api/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS enrollments (
    enrollment_id      CHAR(36) PRIMARY KEY,
    enrollment_year    INTEGER      NOT NULL,
    semester           VARCHAR(10)  NOT NULL,
    student_id         VARCHAR(64)  NOT NULL,
    student_first_name VARCHAR(128) NOT NULL DEFAULT '',
    student_last_name  VARCHAR(128) NOT NULL DEFAULT '',
    course_id          VARCHAR(64)  NOT NULL,
    course_number      VARCHAR(64)  NOT NULL DEFAULT '',
    course_name        VARCHAR(256) NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_enrollments_student_id ON enrollments (student_id);
CREATE INDEX IF NOT EXISTS idx_enrollments_course_id ON enrollments (course_id);
`

func main() {
	var timeout time.Duration
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "statement timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}
	log.Printf("enrollments schema ready (database=%s)", cfg.Database.Name)
}
