package graderun

// Usage returns the static multi-section help block printed to stdout after
// a successful run. It is informational only and never written to the run
// log.
func Usage() string { return usageText }

const usageText = `----------------------------------------------------------------------
graderun - sponsor grader automation

Usage:
  graderun [grader arguments...]

With no arguments the grading program runs with the default safety cap:
  --sheet-type media --max-records 10

Installation:
  go build -o graderun ./cmd/graderun
  ./graderun                 # first run provisions the environment

Manual runs:
  ./graderun                                      # capped default run
  ./graderun --sheet-type blog --max-records 50   # explicit arguments

Scheduled execution (cron):
  0 6 * * * cd /opt/grader && ./graderun >> logs/cron.log 2>&1

Logs:
  ls logs/
  tail -f logs/grader_run_*.log
----------------------------------------------------------------------`
