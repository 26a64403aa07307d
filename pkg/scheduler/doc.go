// Package scheduler runs the periodic maintenance jobs of the back office
// (plan catalog refresh, overdue invoice sweep) on github.com/robfig/cron/v3.
package scheduler
